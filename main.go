// main.go
package main

import "movie-comments/cmd"

func main() {
	cmd.Execute()
}
