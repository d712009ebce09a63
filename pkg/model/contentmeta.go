package model

import "math"

const (
	// UnpackagedID is the owner of content which no package claims
	UnpackagedID = "chunker-unpackaged-content"

	// InitramfsName is the name of the synthetic owner of initramfs images
	InitramfsName = "initramfs"

	// VolatileSentinel marks a synthetic owner as always volatile,
	// both as a change time offset and as a change frequency
	VolatileSentinel uint32 = math.MaxUint32
)

// InitramfsID is the synthetic owner for the initramfs image of some kernel version
func InitramfsID(kernelVersion string) string {
	return InitramfsName + " (kernel " + kernelVersion + ")"
}

// OwnerMetadata describes an owner for the layer packer
type OwnerMetadata struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Name       string `json:"name" yaml:"name"`
	SrcID      string `json:"srcid" yaml:"srcid"`

	// ChangeTimeOffset is the number of hours since the earliest last change across all packages
	ChangeTimeOffset uint32 `json:"change_time_offset" yaml:"change_time_offset"`

	// ChangeFrequency is the lifetime number of updates of the owner
	ChangeFrequency uint32 `json:"change_frequency" yaml:"change_frequency"`
	_               struct{}
}

// SyntheticOwner builds the metadata of an owner that is not a package
func SyntheticOwner(identifier, name string) OwnerMetadata {
	return OwnerMetadata{
		Identifier:       identifier,
		Name:             name,
		SrcID:            identifier,
		ChangeTimeOffset: VolatileSentinel,
		ChangeFrequency:  VolatileSentinel,
	}
}

// IsSynthetic tells if this owner is some synthetic bucket rather than a package
func (o OwnerMetadata) IsSynthetic() bool {
	return o.ChangeTimeOffset == VolatileSentinel && o.ChangeFrequency == VolatileSentinel
}

// ContentMeta is what gets handed over to the layer packer:
// a total function from content checksum to owner, and the metadata of every owner.
type ContentMeta struct {
	Map map[string]string `json:"map" yaml:"map"`
	Set []OwnerMetadata   `json:"set" yaml:"set"`
	_   struct{}
}

// Owner returns the metadata for an owner identifier
func (c ContentMeta) Owner(identifier string) (OwnerMetadata, bool) {
	for _, meta := range c.Set {
		if meta.Identifier == identifier {
			return meta, true
		}
	}
	return OwnerMetadata{}, false
}
