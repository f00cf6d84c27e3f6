package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local chart and source cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Only the file
// backend can be cleared from the CLI; shared backends expire by TTL.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached source response, chart and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout())
			if c.Config.Cache.Backend != config.CacheFile {
				out.warning("Cache backend %q is not cleared from the CLI", c.Config.Cache.Backend)
				return nil
			}
			fc, err := cache.NewFileCache(c.Config.Cache.Dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				out.info("Cache is empty")
				return nil
			}
			out.success("Cleared %d cached entries", n)
			out.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.Config.Cache.Dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the configured cache backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newPrinter(cmd.OutOrStdout())
			cc := c.Config.Cache
			out.keyValue("backend", cc.Backend)
			switch cc.Backend {
			case config.CacheFile:
				out.keyValue("dir", cc.Dir)
			case config.CacheRedis:
				out.keyValue("url", cc.RedisURL)
			case config.CacheMongo:
				out.keyValue("uri", cc.MongoURI)
				out.keyValue("collection", cc.MongoDatabase+"."+cc.MongoCollection)
			}
			if cc.Prefix != "" {
				out.keyValue("prefix", cc.Prefix)
			}
			out.keyValue("ttl", fmt.Sprintf("source %s · chart %s · artifact %s", cache.TTLHTTP, cache.TTLChart, cache.TTLArtifact))
			return nil
		},
	}
}
