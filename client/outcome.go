package client

type OutcomeKind int

const (
	OutcomeReply OutcomeKind = iota
	OutcomeFailure
	OutcomeTransportError
)

// Outcome is the decoded result of one /chat exchange.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

func Reply(text string) Outcome {
	return Outcome{Kind: OutcomeReply, Text: text}
}

func Failure(message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Text: message}
}

func TransportError() Outcome {
	return Outcome{Kind: OutcomeTransportError}
}

// BotLine is the transcript text shown for the outcome.
func (o Outcome) BotLine() string {
	switch o.Kind {
	case OutcomeReply:
		return o.Text
	case OutcomeFailure:
		return "Sorry, " + o.Text
	default:
		return ConnectionError
	}
}
