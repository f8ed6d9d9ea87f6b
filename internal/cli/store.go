package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetq/internal/domain"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
	logpkg "github.com/kailas-cloud/assetq/internal/logger"
	snapshotrepo "github.com/kailas-cloud/assetq/internal/repository/snapshot"
)

func (a *app) newPushCmd() *cobra.Command {
	var (
		file  string
		codec string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "push <collection>",
		Short: "Write a snapshot file to the store",
		Long: `Reads a snapshot file and stores it as the latest snapshot of a collection,
stamping a new revision. The collection must be configured unless --force is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.commandContext(cmd)
			collection := args[0]

			info, err := os.Stat(file)
			if err != nil {
				return err
			}
			loaded, err := snapshotrepo.LoadFile(file)
			if err != nil {
				return err
			}
			snap, err := domsnap.New(collection, loaded.Records(), a.clock())
			if err != nil {
				return err
			}

			repo, cfg, closeStore, err := a.repo(ctx, codec)
			if err != nil {
				return err
			}
			defer closeStore()

			if !force && !slices.Contains(cfg.Collections.All(), collection) {
				return fmt.Errorf("%w: %q (use --force to push anyway)", domain.ErrUnknownCollection, collection)
			}

			saved, err := repo.Save(ctx, snap)
			if err != nil {
				return fmt.Errorf("push %s: %w", collection, err)
			}
			logpkg.FromContext(ctx).Debug("Snapshot pushed",
				zap.String("collection", collection),
				zap.String("codec", repo.Codec().Name()),
				zap.Int64("sequence", saved.Sequence()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %s records from %s (%s) to %s, revision %s\n",
				humanize.Comma(int64(saved.Len())), file, humanize.Bytes(uint64(info.Size())),
				collection, saved.Revision())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot file to push")
	cmd.Flags().StringVar(&codec, "codec", "", "storage codec: json, packed (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "push to a collection missing from the config")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// collectionInfo is one row of the collections listing.
type collectionInfo struct {
	Name      string    `json:"name"`
	Records   int       `json:"records"`
	Revision  string    `json:"revision"`
	Sequence  int64     `json:"sequence"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (a *app) newCollectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List the snapshots held by the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.commandContext(cmd)
			repo, _, closeStore, err := a.repo(ctx, "")
			if err != nil {
				return err
			}
			defer closeStore()

			names, err := repo.List(ctx)
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			infos := make([]collectionInfo, 0, len(names))
			for _, name := range names {
				s, err := repo.Load(ctx, name)
				if err != nil {
					return fmt.Errorf("load %s: %w", name, err)
				}
				infos = append(infos, collectionInfo{
					Name:      name,
					Records:   s.Len(),
					Revision:  s.Revision(),
					Sequence:  s.Sequence(),
					FetchedAt: s.FetchedAt(),
				})
			}

			w := cmd.OutOrStdout()
			if a.output == OutputJSON || (a.output == OutputAuto && !a.isTerminal(w)) {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			now := a.clock()
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tRECORDS\tREVISION\tSEQ\tFETCHED")
			for _, in := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", in.Name, humanize.Comma(int64(in.Records)),
					orDash(in.Revision), in.Sequence, humanize.RelTime(in.FetchedAt, now, "ago", "from now"))
			}
			return tw.Flush()
		},
	}
}

func (a *app) newDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <collection>",
		Short: "Delete the snapshot of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.commandContext(cmd)
			repo, _, closeStore, err := a.repo(ctx, "")
			if err != nil {
				return err
			}
			defer closeStore()

			if err := repo.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("drop %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", args[0])
			return nil
		},
	}
}
