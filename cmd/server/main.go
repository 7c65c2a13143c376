// @title Tasks API
// @version 1.0
// @description 任务清单 REST API，任务保存在单个 JSON 文档中
// @host localhost:3001
// @BasePath /api
// @schemes http
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version 构建时注入
var Version = "dev"

func main() {
	rootCmd := newServeCmd()
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
