package cmd

import (
	"PosFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动PosFM服务器",
	Long:  `启动PosFM音乐系统的HTTP服务器，提供曲目目录、播放列表和流媒体网关`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
