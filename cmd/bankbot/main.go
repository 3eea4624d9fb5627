package main

import (
	_ "bankbot/pkg/logger/autoload"
)

func main() {
	Execute()
}
