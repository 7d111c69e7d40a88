/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/trailtrack/apiserver/cmd"

func main() {
	cmd.Execute()
}
