package main

import (
	"fmt"

	"github.com/spf13/cobra"

	dm "github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "管理模型接入配置",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "查看配置状态",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := a.engine.ConfigStatus(cmd.Context())
			if err != nil {
				return err
			}
			if !status.Configured {
				fmt.Println("未配置")
				return nil
			}
			cfg, err := a.engine.APIConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("provider: %s\nmodel:    %s\nbaseUrl:  %s\napiKey:   %s\n", cfg.Provider, cfg.ModelID, cfg.BaseURL, mask(cfg.APIKey))
			for _, p := range cfg.CustomProxies {
				fmt.Printf("proxy:    %s\n", p)
			}
			return nil
		},
	}

	var in dm.APIConfig
	var provider string
	var validate bool
	set := &cobra.Command{
		Use:   "set",
		Short: "整体替换模型接入配置",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Provider = dm.Provider(provider)
			if validate {
				res := a.engine.ValidateConfig(cmd.Context(), in)
				if !res.Valid {
					return fmt.Errorf("连接失败，请检查凭证: %s", res.Message)
				}
				fmt.Println(res.Message)
			}
			if err := a.engine.UpdateConfig(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Println("配置已保存")
			return nil
		},
	}
	set.Flags().StringVar(&provider, "provider", string(dm.ProviderDeepSeek), "openai|deepseek|ollama")
	set.Flags().StringVar(&in.APIKey, "api-key", "", "API Key")
	set.Flags().StringVar(&in.BaseURL, "base-url", "", "接口地址（默认按提供方）")
	set.Flags().StringVar(&in.ModelID, "model", "", "模型 ID")
	set.Flags().StringArrayVar(&in.CustomProxies, "proxy", nil, "自定义中继模板，可重复；包含 ${url} 占位符")
	set.Flags().BoolVar(&validate, "validate", false, "保存前校验连通性")

	check := &cobra.Command{
		Use:   "validate",
		Short: "校验已保存配置的连通性",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.engine.APIConfig(cmd.Context())
			if err != nil {
				return err
			}
			if cfg == nil {
				fmt.Println("未配置")
				return nil
			}
			res := a.engine.ValidateConfig(cmd.Context(), *cfg)
			if !res.Valid {
				return fmt.Errorf("连接失败，请检查凭证: %s", res.Message)
			}
			fmt.Printf("%s 可用模型: %v\n", res.Message, res.Models)
			return nil
		},
	}

	cmd.AddCommand(show, set, check)
	return cmd
}

func mask(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
