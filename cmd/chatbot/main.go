package main

import "github.com/joho/godotenv"

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	Execute()
}
