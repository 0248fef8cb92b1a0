package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/c2h5oh/datasize"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/icforge/canistertools/memory"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type regionInfo struct {
	ID         memory.ID
	Pages      uint64
	Bytes      uint64
	PayloadLen int64 // -1 when the region holds no valid frame
}

func inspectRegion(dataDir string, id memory.ID) (regionInfo, error) {
	r, err := memory.OpenFileRegion(dataDir + "/" + memory.RegionFileName(id))
	if err != nil {
		return regionInfo{}, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			logrus.WithError(err).WithField("memory_id", id).Warn("Close region")
		}
	}()

	info := regionInfo{
		ID:         id,
		Pages:      r.Size(),
		Bytes:      r.Size() * memory.PageSize,
		PayloadLen: -1,
	}
	if payload, err := memory.ReadFramedChecked(r, memory.HeaderSize); err == nil {
		info.PayloadLen = int64(len(payload))
	} else {
		logrus.WithError(err).WithField("memory_id", id).Warn("Region holds no valid frame")
	}
	return info, nil
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show size and framed payload length of every region file",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := os.ReadDir(conf.DataDir)
		if err != nil {
			return err
		}
		var ids []memory.ID
		for _, e := range entries {
			if id, ok := memory.ParseRegionFileName(e.Name()); ok {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			logrus.WithField("data_dir", conf.DataDir).Info("No region files found")
			return nil
		}

		infos := make([]regionInfo, len(ids))
		var g errgroup.Group
		for i, id := range ids {
			g.Go(func() error {
				info, err := inspectRegion(conf.DataDir, id)
				if err != nil {
					return err
				}
				infos[i] = info
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
		for _, info := range infos {
			payload := "no frame"
			if info.PayloadLen >= 0 {
				payload = datasize.ByteSize(info.PayloadLen).HumanReadable()
			}
			fmt.Printf("region %3s : %5d pages (%s), payload %s\n",
				info.ID, info.Pages,
				datasize.ByteSize(info.Bytes).HumanReadable(), payload)
		}
		total := lo.SumBy(infos, func(i regionInfo) uint64 { return i.Bytes })
		fmt.Printf("total      : %d regions, %s\n",
			len(infos), datasize.ByteSize(total).HumanReadable())
		return nil
	},
}
