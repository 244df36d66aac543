package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var persona string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "对当前快照的标题生成总体分析",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := dm.ParsePersona(persona)
			if err != nil {
				return err
			}
			rep, err := a.engine.AnalyzeOverview(cmd.Context(), p)
			if err != nil {
				return err
			}
			renderOverview(rep)
			return nil
		},
	}
	cmd.Flags().StringVarP(&persona, "persona", "p", string(dm.DefaultPersona), "解码视角")
	return cmd
}

func newDeepCmd(a *app) *cobra.Command {
	var (
		persona string
		title   string
		save    bool
	)
	cmd := &cobra.Command{
		Use:   "deep <url>",
		Short: "对单篇文章生成深度研判",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := dm.ParsePersona(persona)
			if err != nil {
				return err
			}
			art := a.lookupArticles(ctx, args)[0]
			if title != "" {
				art.Title = title
			}

			rep, err := a.engine.AnalyzeArticle(ctx, p, art)
			if err != nil {
				return err
			}
			renderDeep(art, rep)

			if save {
				saved, err := a.engine.SaveReport(ctx, art, *rep, p)
				if err != nil {
					return err
				}
				fmt.Printf("已存档: %s\n", saved.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&persona, "persona", "p", string(dm.DefaultPersona), "解码视角")
	cmd.Flags().StringVar(&title, "title", "", "文章标题（默认从快照中查找）")
	cmd.Flags().BoolVar(&save, "save", false, "保存到档案")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var persona string
	cmd := &cobra.Command{
		Use:   "batch <url>...",
		Short: "批量深度研判并存档（最多 5 篇）",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := dm.ParsePersona(persona)
			if err != nil {
				return err
			}

			summary, err := a.engine.RunBatch(ctx, a.lookupArticles(ctx, args), p, func(current, total int) {
				fmt.Printf("正在解读 %d/%d ...\n", current, total)
			})
			if err != nil {
				return err
			}

			fmt.Printf("批量解读完成: 存档 %d 篇，跳过 %d 篇，失败 %d 篇\n", len(summary.Saved), summary.Skipped, summary.Failed)
			renderDossier(summary.Saved)
			return nil
		},
	}
	cmd.Flags().StringVarP(&persona, "persona", "p", string(dm.DefaultPersona), "解码视角")
	return cmd
}

// lookupArticles 优先使用快照中的标题与日期，快照中没有的 URL 以自身作为标题
func (a *app) lookupArticles(ctx context.Context, urls []string) []dm.Article {
	known := make(map[string]dm.Article)
	if snap, err := a.engine.LatestSnapshot(ctx); err == nil && snap != nil {
		for _, art := range snap.Articles {
			known[art.URL] = art
		}
	}

	out := make([]dm.Article, 0, len(urls))
	for _, u := range urls {
		if art, ok := known[u]; ok {
			out = append(out, art)
			continue
		}
		out = append(out, dm.Article{Title: u, URL: u, Date: time.Now().Format(time.DateOnly)})
	}
	return out
}

func renderOverview(rep *dm.AnalysisReport) {
	fmt.Printf("【局势】%s\n\n", rep.Summary())
	fmt.Printf("【形势研判】%s\n\n", rep.Situation())
	fmt.Printf("【真实意图】%s\n\n", rep.Intent())

	zone := rep.Avoidance()
	if zone.Title != "" || len(zone.Items) > 0 {
		fmt.Printf("【%s】\n", zone.Title)
		for _, item := range zone.Items {
			fmt.Printf("  - %s\n", item)
		}
		fmt.Println()
	}

	fmt.Printf("【%s】(风险: %s)\n%s\n\n", rep.AdviceTitle(), rep.AdviceRiskLevel(), rep.AdviceContent())

	if kws := rep.Keywords(); len(kws) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"关键词", "权重", "倾向"})
		for _, k := range kws {
			t.AppendRow(table.Row{k.Word, k.Weight, k.Sentiment})
		}
		t.Render()
	}

	for _, topic := range rep.Topics() {
		fmt.Printf("· %s: %s\n", topic.TopicName, topic.Summary)
	}
}

func renderDeep(art dm.Article, rep *dm.DeepReport) {
	fmt.Printf("%s\n%s\n\n", art.Title, art.URL)
	fmt.Printf("[表面含义] %s\n\n", rep.SurfaceMeaning)
	fmt.Printf("[深层逻辑] %s\n\n", rep.DeepLogic)
	fmt.Printf("[影响评估] %s\n\n", rep.ImpactAssessment)
	fmt.Printf("[语调分析] %s\n\n", rep.BiasCheck)
	if len(rep.KeySegments) > 0 {
		fmt.Println("[关键原句]")
		fmt.Println("  - " + strings.Join(rep.KeySegments, "\n  - "))
	}
}
