// Command sway runs animation scripts against a sway graph, headless or in
// a window.
package main

func main() {
	Execute()
}
