package main

import "github.com/joho/godotenv"

func main() {
	// Missing .env is fine; the FDC key can come from the environment.
	_ = godotenv.Load()
	Execute()
}
