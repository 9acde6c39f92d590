package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/vocquiz/internal/app"
	"github.com/eslsoft/vocquiz/internal/usecase/backup"
)

func sectionsFromConfig(key string) []backup.Section {
	return normalizeSections(viper.GetStringSlice(key))
}

func normalizeSections(values []string) []backup.Section {
	if len(values) == 0 {
		return nil
	}
	result := make([]backup.Section, 0, len(values))
	for _, value := range values {
		name := strings.TrimSpace(value)
		if name == "" {
			continue
		}
		result = append(result, backup.Section(strings.ToLower(name)))
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// withContainer builds the application, runs fn and drains pending writes before returning.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	container, cleanup, err := app.Initialize(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(ctx, container)
}
