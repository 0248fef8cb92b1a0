package commands

import (
	"fmt"
	"os"

	"github.com/PowerDNS/simpleblob"
	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/icforge/canistertools/memory"

	// Register the archive storage backends
	_ "github.com/PowerDNS/simpleblob/backends/fs"
	_ "github.com/PowerDNS/simpleblob/backends/memory"
)

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.AddCommand(archiveSaveCmd)
	archiveCmd.AddCommand(archiveListCmd)

	archiveCmd.AddCommand(archiveRestoreCmd)
	archiveRestoreCmd.Flags().Uint8P("memory-id", "m", 0, "Region to restore")
}

func archiveBackend() (simpleblob.Interface, error) {
	if conf.Archive.Type == "" {
		return nil, errors.New("no archive.type configured")
	}
	return simpleblob.GetBackend(rootCtx, conf.Archive.Type, conf.Archive.Options)
}

func archiveBlobName(id memory.ID) string {
	return fmt.Sprintf("memory-%03d.snapshot", uint8(id))
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy region payloads to and from blob storage",
}

var archiveSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store the framed payload of every region file in the archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := archiveBackend()
		if err != nil {
			return err
		}
		entries, err := os.ReadDir(conf.DataDir)
		if err != nil {
			return err
		}
		var saved int
		for _, e := range entries {
			id, ok := memory.ParseRegionFileName(e.Name())
			if !ok {
				continue
			}
			payload, err := readRegionPayload(conf.DataDir, id)
			if err != nil {
				logrus.WithError(err).WithField("memory_id", id).Warn("Skipping region")
				continue
			}
			if err := st.Store(rootCtx, archiveBlobName(id), payload); err != nil {
				return errors.Wrapf(err, "store region %s", id)
			}
			logrus.WithFields(logrus.Fields{
				"memory_id": id,
				"size":      datasize.ByteSize(len(payload)).HumanReadable(),
			}).Info("Region payload archived")
			saved++
		}
		if saved == 0 {
			logrus.WithField("data_dir", conf.DataDir).Info("No region payloads found")
		}
		return nil
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived region payloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := archiveBackend()
		if err != nil {
			return err
		}
		blobs, err := st.List(rootCtx, "memory-")
		if err != nil {
			return err
		}
		for _, b := range blobs {
			fmt.Printf("%-30s %s\n", b.Name, datasize.ByteSize(b.Size).HumanReadable())
		}
		return nil
	},
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Write an archived payload back into a region file",
	RunE: func(cmd *cobra.Command, args []string) error {
		idNum, err := cmd.Flags().GetUint8("memory-id")
		if err != nil {
			return err
		}
		id := memory.ID(idNum)

		st, err := archiveBackend()
		if err != nil {
			return err
		}
		payload, err := st.Load(rootCtx, archiveBlobName(id))
		if err != nil {
			return errors.Wrapf(err, "load archived payload for region %s", id)
		}

		r, err := memory.OpenFileRegion(conf.DataDir + "/" + memory.RegionFileName(id))
		if err != nil {
			return err
		}
		defer func() {
			if err := r.Close(); err != nil {
				logrus.WithError(err).WithField("memory_id", id).Warn("Close region")
			}
		}()
		if err := memory.WriteFramed(r, memory.HeaderSize, payload); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"memory_id": id,
			"size":      datasize.ByteSize(len(payload)).HumanReadable(),
		}).Info("Region payload restored")
		return nil
	},
}
