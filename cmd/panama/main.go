// cmd/panama/main.go
package main

import (
	"panama/internal/app"
	"panama/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
