package main

import "github.com/computaria2025/FitCooker-v2-sub000/cmd/fitcooker"

func main() {
	fitcooker.Execute()
}
