package registry

import (
	"slices"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/icforge/canistertools/codec"
	"github.com/icforge/canistertools/memory"
)

// Register binds the live value to id so that upgrades and snapshots
// serialize its current contents through c. The registry references value,
// it does not take ownership.
func Register[T any](r *Registry, id memory.ID, value *T, c codec.Codec[T]) error {
	return r.Bind(id,
		func() ([]byte, error) {
			return c.Forward(*value)
		},
		func(b []byte) error {
			v, err := c.Backward(b)
			if err != nil {
				return err
			}
			*value = v
			return nil
		})
}

// PreUpgrade serializes every registered value and writes it length-framed
// to its region, after the reserved region header. Regions are independent;
// ids are visited in ascending order for determinism.
func (r *Registry) PreUpgrade() error {
	defer r.guard.exclusive()()

	ids := lo.Keys(r.entries)
	slices.Sort(ids)
	for _, id := range ids {
		e := r.entries[id]
		// Drop the previous staged buffer first so the heap holds at most
		// one copy of the encoding.
		e.staged = nil
		b, err := e.serialize()
		if err != nil {
			return errors.Wrapf(err, "serialize value for memory id %s", id)
		}
		e.staged = b
		if err := memory.WriteFramed(r.mem.Get(id), memory.HeaderSize, b); err != nil {
			return errors.Wrapf(err, "memory id %s", id)
		}
		metricUpgradeWrites.Inc()
		r.log.WithFields(logrus.Fields{
			"memory_id": id,
			"size":      datasize.ByteSize(len(b)).HumanReadable(),
		}).Info("State serialized to stable memory")
	}
	return nil
}

// Restore reads the framed payload written by the previous code version
// from id's region, decodes it through c into value, and re-registers value
// under id for the next upgrade.
func Restore[T any](r *Registry, id memory.ID, value *T, c codec.Codec[T]) error {
	return RestoreConvert(r, id, value, c, c, func(v T) T { return v })
}

// RestoreConvert is Restore across a schema change: the stored payload is
// decoded with the previous type's codec, converted to the new shape, and
// value is re-registered with the new type's codec. Forward migration only.
func RestoreConvert[Old, New any](
	r *Registry,
	id memory.ID,
	value *New,
	oldc codec.Codec[Old],
	newc codec.Codec[New],
	convert func(Old) New,
) error {
	stored := memory.ReadFramed(r.mem.Get(id), memory.HeaderSize)

	old, err := oldc.Backward(stored)
	if err != nil {
		return errors.Wrapf(err, "decode stored state for memory id %s", id)
	}
	*value = convert(old)

	return Register(r, id, value, newc)
}
