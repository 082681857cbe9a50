package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	"github.com/hupe1980/pixvec"
	"github.com/hupe1980/pixvec/blobstore"
	miniostore "github.com/hupe1980/pixvec/blobstore/minio"
	s3store "github.com/hupe1980/pixvec/blobstore/s3"
	"github.com/hupe1980/pixvec/codec"
	"github.com/hupe1980/pixvec/internal/config"
	"github.com/hupe1980/pixvec/raster"
	"github.com/hupe1980/pixvec/resource"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// openStore builds the blob store selected by the configuration. Tests replace it.
var openStore = func(ctx context.Context, cfg config.Store) (blobstore.BlobStore, error) {
	switch cfg.Kind {
	case config.StoreS3:
		var optFns []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3store.NewStore(awss3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
	case config.StoreMinIO:
		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		return miniostore.NewStore(client, cfg.Bucket, cfg.Prefix), nil
	default:
		return blobstore.NewLocalStore(cfg.Root), nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pixvec",
		Short:         "Decode quasi-CSV pixel datasets into image galleries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to the YAML config file (default $PIXVEC_CONFIG or ~/.pixvec/config.yaml if present)")
	rootCmd.PersistentFlags().Int("limit", 0, "Maximum number of samples")
	rootCmd.PersistentFlags().String("format", "", "Image format: png, bmp or tiff")
	rootCmd.PersistentFlags().Int("scale", 0, "Integer upscale factor")

	rootCmd.AddCommand(
		decodeCmd(),
		renderCmd(),
		versionCmd(),
	)

	return rootCmd
}

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <blob>",
		Short: "Decode a dataset and print its samples as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}

			p, c, err := newPipeline(cfg, cmd.ErrOrStderr(), "")
			if err != nil {
				return err
			}

			res, err := p.DecodeBlob(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}

			marshal := c.Marshal
			if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
				marshal = func(v any) ([]byte, error) { return codec.MarshalIndent(c, v) }
			}

			data, err := marshal(res.Records())
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data); err != nil {
				return err
			}

			printReport(cmd.ErrOrStderr(), res.Report)
			return nil
		},
	}
	cmd.Flags().Bool("pretty", false, "Indent the JSON output")
	return cmd
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <blob>",
		Short: "Decode a dataset and publish its images and manifest to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			run, _ := cmd.Flags().GetString("run")
			if run == "" {
				run = uuid.NewString()
			}
			prefix := path.Join(out, run)

			p, _, err := newPipeline(cfg, cmd.ErrOrStderr(), run)
			if err != nil {
				return err
			}

			res, err := p.DecodeBlob(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}

			m, err := p.Publish(cmd.Context(), store, prefix, res)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", path.Join(m.Prefix, "manifest.json"))
			printReport(cmd.ErrOrStderr(), res.Report)
			return nil
		},
	}
	cmd.Flags().String("out", "galleries", "Prefix under which galleries are written")
	cmd.Flags().String("run", "", "Gallery run id (default a random UUID)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pixvec %s\n", version)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		if p := config.DefaultConfigPath(); fileExists(p) {
			cfgPath = p
		}
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Limit, _ = flags.GetInt("limit")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("scale") {
		cfg.Scale, _ = flags.GetInt("scale")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newPipeline builds a pipeline from cfg. A non-empty run tags every log record.
func newPipeline(cfg *config.Config, logOut io.Writer, run string) (*pixvec.Pipeline, codec.Codec, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	format, err := raster.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, nil, fmt.Errorf("unknown codec %q", cfg.Codec)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(logOut, handlerOpts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(logOut, handlerOpts)
	}

	logger := pixvec.NewLogger(handler)
	if run != "" {
		logger = logger.WithRun(run)
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.MemoryLimitBytes,
		MaxWorkers:         int64(cfg.Workers),
		IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
	})

	p := pixvec.New(
		pixvec.WithLogger(logger),
		pixvec.WithLimit(cfg.Limit),
		pixvec.WithMaxRows(cfg.MaxRows),
		pixvec.WithCodec(c),
		pixvec.WithResourceController(rc),
		pixvec.WithRaster(func(o *raster.Options) {
			o.Format = format
			o.Scale = cfg.Scale
		}),
	)
	return p, c, nil
}

func printReport(w io.Writer, r *pixvec.Report) {
	fmt.Fprintf(w, "rows=%d skipped=%v warned=%v placeholders=%v\n",
		r.Rows, r.Skipped.ToArray(), r.Warned.ToArray(), r.Placeholders.ToArray())
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
