package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/export"
	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

func newDossierCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dossier",
		Short: "管理深度研判档案",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "列出档案",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := a.engine.Dossier(cmd.Context())
			if err != nil {
				return err
			}
			renderDossier(reports)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "按 ID 删除档案",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remaining, err := a.engine.DeleteReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("已删除，剩余 %d 条\n", len(remaining))
			return nil
		},
	}

	var format, out string
	exp := &cobra.Command{
		Use:   "export",
		Short: "导出档案为 JSON 或 TXT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			reports, err := a.engine.Dossier(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now()
			if out == "" {
				out = export.FileName(f, now)
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := export.Write(file, f, reports, now); err != nil {
				return err
			}
			fmt.Printf("已导出 %d 条档案: %s\n", len(reports), out)
			return nil
		},
	}
	exp.Flags().StringVarP(&format, "format", "f", "json", "导出格式 json|txt")
	exp.Flags().StringVarP(&out, "out", "o", "", "输出文件（默认 xinhua_insight_dossier_日期.格式）")

	cmd.AddCommand(list, del, exp)
	return cmd
}

func renderDossier(reports []dm.SavedReport) {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "视角", "日期", "标题", "存档时间"})
	for _, r := range reports {
		t.AppendRow(table.Row{
			r.ID,
			r.Persona,
			r.Article.Date,
			r.Article.Title,
			time.UnixMilli(r.Timestamp).Format(time.DateTime),
		})
	}
	t.Render()
}
