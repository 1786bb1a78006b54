package main

import "payledger/internal/app/server"

func main() {
	server.Run()
}
