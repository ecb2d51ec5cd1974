package model

import (
	"errors"
	"sync"
)

// Device errors.
var (
	ErrDuplicateElement = errors.New("duplicate element index")
	ErrElementNotFound  = errors.New("element not found")
)

// Feature bits advertised by the node.
type Feature uint16

const (
	// FeatureRelay indicates the node relays network PDUs.
	FeatureRelay Feature = 1 << 0

	// FeatureProxy indicates the node supports GATT proxy.
	FeatureProxy Feature = 1 << 1

	// FeatureFriend indicates the node caches messages for Low Power Nodes.
	FeatureFriend Feature = 1 << 2

	// FeatureLowPower indicates the node is a Low Power Node.
	FeatureLowPower Feature = 1 << 3
)

// Device represents a mesh node with its element composition.
// It is the top-level container in the Device > Element > Model hierarchy.
type Device struct {
	mu sync.RWMutex

	// deviceID is the unique device identifier.
	deviceID string

	// companyID is the company identifier assigned by the Bluetooth SIG.
	companyID uint16

	// productID is the vendor-assigned product identifier.
	productID uint16

	// vendorID is the vendor-assigned product version identifier.
	vendorID uint16

	// name is the advertised device name.
	name string

	// features are the advertised feature bits.
	features Feature

	// Elements indexed by element index.
	elements map[uint8]*Element
}

// NewDevice creates a new device with the given identity.
// The main element (index 0) is always created.
func NewDevice(deviceID string, companyID, productID, vendorID uint16) *Device {
	d := &Device{
		deviceID:  deviceID,
		companyID: companyID,
		productID: productID,
		vendorID:  vendorID,
		elements:  make(map[uint8]*Element),
	}

	d.elements[0] = NewElement(0, LocationMain)

	return d
}

// DeviceID returns the unique device identifier.
func (d *Device) DeviceID() string {
	return d.deviceID
}

// CompanyID returns the Bluetooth SIG company identifier.
func (d *Device) CompanyID() uint16 {
	return d.companyID
}

// ProductID returns the product identifier.
func (d *Device) ProductID() uint16 {
	return d.productID
}

// VendorID returns the vendor-assigned version identifier.
func (d *Device) VendorID() uint16 {
	return d.vendorID
}

// Name returns the advertised device name.
func (d *Device) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// SetName sets the advertised device name.
func (d *Device) SetName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
}

// Features returns the advertised feature bits.
func (d *Device) Features() Feature {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.features
}

// SetFeatures sets the advertised feature bits.
func (d *Device) SetFeatures(features Feature) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.features = features
}

// HasFeature reports whether a feature bit is set.
func (d *Device) HasFeature(f Feature) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.features&f != 0
}

// MainElement returns element 0.
func (d *Device) MainElement() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.elements[0]
}

// AddElement adds an element to the device.
func (d *Device) AddElement(element *Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.elements[element.Index()]; exists {
		return ErrDuplicateElement
	}
	d.elements[element.Index()] = element
	return nil
}

// Element returns the element with the given index.
func (d *Device) Element(index uint8) (*Element, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	element, exists := d.elements[index]
	if !exists {
		return nil, ErrElementNotFound
	}
	return element, nil
}

// Elements returns all elements ordered by index.
func (d *Device) Elements() []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Element, 0, len(d.elements))
	for i := 0; i < 256; i++ {
		if element, exists := d.elements[uint8(i)]; exists {
			out = append(out, element)
		}
	}
	return out
}

// ElementCount returns the number of elements.
func (d *Device) ElementCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.elements)
}
