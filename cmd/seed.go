package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"PosFM/catalog"
	"PosFM/config"
	"PosFM/db"
	"PosFM/model"
	"PosFM/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "扫描媒体目录并导入曲目目录",
	Long:  `扫描本地媒体目录下的.mp3文件，把尚未登记的文件写入曲目目录表。标题取自文件名，元数据可随后在数据库中补齐。`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("无法连接数据库: %v", err)
		}
		defer db.DB.Close()

		if err := db.InitDB(); err != nil {
			log.Fatalf("初始化数据库失败: %v", err)
		}

		entries, err := os.ReadDir(cfg.MediaDir)
		if err != nil {
			log.Fatalf("读取媒体目录失败: %v", err)
		}

		repo := repository.NewMySQLTrackRepository()
		var added, skipped int
		for _, entry := range entries {
			if entry.IsDir() || !catalog.IsPlayable(entry.Name()) {
				continue
			}

			existing, err := repo.GetTrackByFileName(entry.Name())
			if err != nil {
				log.Fatalf("查询曲目失败: %v", err)
			}
			if existing != nil {
				skipped++
				continue
			}

			title := strings.TrimSuffix(entry.Name(), ".mp3")
			if _, err := repo.CreateTrack(&model.Track{
				FileName:    entry.Name(),
				Title:       title,
				ReleaseDate: time.Now(),
			}); err != nil {
				log.Fatalf("导入曲目失败 (%s): %v", entry.Name(), err)
			}
			fmt.Printf("已导入: %s\n", entry.Name())
			added++
		}

		fmt.Printf("导入完成：新增 %d 首，跳过 %d 首已存在的曲目。\n", added, skipped)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
