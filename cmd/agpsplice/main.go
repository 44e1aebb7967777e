// cmd/agpsplice/main.go
package main

import (
	"agpsplice/internal/app"
	"agpsplice/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
