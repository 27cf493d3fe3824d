package scene

import "github.com/ionforge/simcore/simerr"

func newDuplicateNodeError(kind string, id uint64) error {
	return simerr.New(simerr.DuplicateID, "%s node %d already exists", kind, id)
}

func newMissingNodeError(kind string, id uint64) error {
	return simerr.New(simerr.MissingID, "%s node %d not found", kind, id)
}

func newFeatureOrderError(list string) error {
	return simerr.New(simerr.FeatureOrderViolation, "first %s feature must be the required transform feature", list)
}

func newRemoveRootError() error {
	return simerr.New(simerr.StructuralViolation, "cannot remove the root group node")
}
