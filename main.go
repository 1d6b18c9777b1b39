/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/unibot/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; real environment variables work just as well.
	_ = godotenv.Load()
}
