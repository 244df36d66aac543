package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/report"
)

var errCrawlFailed = errors.New("爬虫运行失败，代理服务可能繁忙，请稍后重试")

func newCrawlCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "抓取首页并刷新快照",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.engine.CrawlNews(cmd.Context()) {
				return errCrawlFailed
			}
			snap, err := a.engine.LatestSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			renderSnapshot(snap)
			return nil
		},
	}
}

func newSnapshotCmd(a *app) *cobra.Command {
	var ensure bool
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "查看当前快照",
		RunE: func(cmd *cobra.Command, _ []string) error {
			get := a.engine.LatestSnapshot
			if ensure {
				get = a.engine.EnsureSnapshot
			}
			snap, err := get(cmd.Context())
			if err != nil {
				return err
			}
			if snap == nil {
				fmt.Println("暂无快照，请先运行 insight crawl")
				return nil
			}
			renderSnapshot(snap)
			return nil
		},
	}
	cmd.Flags().BoolVar(&ensure, "ensure", false, "没有快照时先抓取一次")
	return cmd
}

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "列出解码视角",
		// 不需要存储与配置
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			t := newTable()
			t.AppendHeader(table.Row{"ID", "名称", "简介"})
			for _, p := range report.Describe() {
				id := string(p.ID)
				if p.ID == dm.DefaultPersona {
					id += " *"
				}
				t.AppendRow(table.Row{id, p.Label, p.Description})
			}
			t.Render()
			return nil
		},
	}
}

func renderSnapshot(snap *dm.DashboardSnapshot) {
	if snap.Stats != nil {
		fmt.Printf("日期: %s  文章: %d  更新于: %s\n", snap.Stats.Date, snap.Stats.TotalArticles, snap.Stats.LastUpdated)

		kw := newTable()
		kw.AppendHeader(table.Row{"#", "关键词", "次数"})
		for i, w := range snap.Stats.TopKeywords {
			kw.AppendRow(table.Row{i + 1, w.Word, w.Count})
		}
		kw.Render()
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "日期", "标题", "URL"})
	for i, art := range snap.Articles {
		t.AppendRow(table.Row{i + 1, art.Date, art.Title, art.URL})
	}
	t.Render()
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	return t
}
