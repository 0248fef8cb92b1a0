package commands

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/icforge/canistertools/memory"
)

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Uint8P("memory-id", "m", 0, "Region to dump")
	dumpCmd.Flags().StringP("output", "o", "", "Output filename, stdout if empty")
}

// readRegionPayload returns the framed payload a pre-upgrade wrote to the
// region file of id.
func readRegionPayload(dataDir string, id memory.ID) ([]byte, error) {
	r, err := memory.OpenFileRegion(dataDir + "/" + memory.RegionFileName(id))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			logrus.WithError(err).WithField("memory_id", id).Warn("Close region")
		}
	}()

	payload, err := memory.ReadFramedChecked(r, memory.HeaderSize)
	if err != nil {
		return nil, errors.Wrapf(err, "region %s", id)
	}
	return payload, nil
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Extract the framed payload of one region file",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmd.Flags().GetUint8("memory-id")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		payload, err := readRegionPayload(conf.DataDir, memory.ID(id))
		if err != nil {
			return err
		}

		if output == "" {
			_, err = os.Stdout.Write(payload)
			return err
		}
		if err := os.WriteFile(output, payload, 0o644); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"memory_id": id,
			"output":    output,
			"len":       len(payload),
		}).Info("Payload written")
		return nil
	},
}
