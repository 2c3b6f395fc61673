package main

import "iteminsight/internal/cmd"

func main() {
	cmd.Run()
}
