package model

import "errors"

// Property errors.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrPropertyTooLong  = errors.New("property value exceeds maximum length")
)

// PropertyID identifies a device property.
type PropertyID uint16

const (
	// PropertyDeviceFirmwareRevision is the published firmware revision.
	PropertyDeviceFirmwareRevision PropertyID = 0x000E

	// PropertyDeviceManufacturerName is the manufacturer name.
	PropertyDeviceManufacturerName PropertyID = 0x002B

	// PropertyDeviceModelNumber is the device model number.
	PropertyDeviceModelNumber PropertyID = 0x002C
)

// PropertyAccess describes how a property may be accessed over the mesh.
type PropertyAccess uint8

const (
	// AccessReadable allows configuration clients to read the property.
	AccessReadable PropertyAccess = 1 << 0

	// AccessWritable allows configuration clients to write the property.
	AccessWritable PropertyAccess = 1 << 1
)

// Property is a user property published by an element.
type Property struct {
	// ID identifies the property.
	ID PropertyID

	// Access describes the allowed access.
	Access PropertyAccess

	// MaxLen is the maximum value length in bytes.
	MaxLen int

	// value is the current property value.
	value []byte
}

// NewProperty creates a property with the given metadata.
func NewProperty(id PropertyID, access PropertyAccess, maxLen int) *Property {
	return &Property{ID: id, Access: access, MaxLen: maxLen}
}

// Value returns a copy of the property value.
func (p *Property) Value() []byte {
	out := make([]byte, len(p.value))
	copy(out, p.value)
	return out
}

// SetValue sets the property value, enforcing the maximum length.
func (p *Property) SetValue(value []byte) error {
	if p.MaxLen > 0 && len(value) > p.MaxLen {
		return ErrPropertyTooLong
	}
	p.value = make([]byte, len(value))
	copy(p.value, value)
	return nil
}

// SetProperty adds or replaces a property on the element.
func (e *Element) SetProperty(p *Property) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.properties[p.ID] = p
}

// Property returns the property with the given ID.
func (e *Element) Property(id PropertyID) (*Property, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, exists := e.properties[id]
	if !exists {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

// PropertyCount returns the number of properties on the element.
func (e *Element) PropertyCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.properties)
}
