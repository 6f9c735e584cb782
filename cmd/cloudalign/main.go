// cmd/cloudalign/main.go
package main

import (
	"cloudalign/internal/app"
	"cloudalign/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
