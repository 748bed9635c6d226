package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, ErrConfigCreated) {
			fmt.Println("📝", err)
			os.Exit(1)
		}
		log.Fatalf("실행 실패: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "bidsheet",
		Short:         "Notion 데이터베이스의 공사 입찰표를 조회합니다",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "설정 파일 경로")

	root.AddCommand(
		newServeCmd(&configPath),
		newExportCmd(&configPath),
		newIndexCmd(&configPath),
		newAskCmd(&configPath),
		newTUICmd(&configPath),
	)
	return root
}
