package main

import "github.com/saadjs/nutri/cmd/nutri"

func main() {
	nutri.Execute()
}
