package main

import "workforce/internal/app/server"

func main() {
	server.Run()
}
