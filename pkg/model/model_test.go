package model

import (
	"testing"
	"time"
)

func TestNewDeviceHasMainElement(t *testing.T) {
	d := NewDevice("lpn-01", 0x0131, 0x3125, 0x0002)

	if d.ElementCount() != 1 {
		t.Fatalf("ElementCount() = %d, want 1", d.ElementCount())
	}

	main := d.MainElement()
	if main == nil {
		t.Fatal("MainElement() = nil")
	}
	if main.Index() != 0 {
		t.Errorf("main element index = %d, want 0", main.Index())
	}
	if main.Location() != LocationMain {
		t.Errorf("main element location = %#x, want %#x", main.Location(), LocationMain)
	}
	if main.OnPowerUp() != PowerUpRestore {
		t.Errorf("OnPowerUp() = %v, want RESTORE", main.OnPowerUp())
	}
}

func TestDeviceIdentity(t *testing.T) {
	d := NewDevice("lpn-01", 0x0131, 0x3125, 0x0002)

	if d.DeviceID() != "lpn-01" {
		t.Errorf("DeviceID() = %q", d.DeviceID())
	}
	if d.CompanyID() != 0x0131 {
		t.Errorf("CompanyID() = %#x", d.CompanyID())
	}
	if d.ProductID() != 0x3125 {
		t.Errorf("ProductID() = %#x", d.ProductID())
	}
	if d.VendorID() != 0x0002 {
		t.Errorf("VendorID() = %#x", d.VendorID())
	}
}

func TestDeviceFeatures(t *testing.T) {
	d := NewDevice("lpn-01", 0x0131, 0x3125, 0x0002)

	d.SetFeatures(FeatureLowPower)
	if !d.HasFeature(FeatureLowPower) {
		t.Error("HasFeature(FeatureLowPower) = false")
	}
	if d.HasFeature(FeatureFriend) {
		t.Error("HasFeature(FeatureFriend) = true, want false")
	}

	d.SetFeatures(FeatureFriend | FeatureRelay | FeatureProxy)
	if !d.HasFeature(FeatureRelay) || !d.HasFeature(FeatureProxy) {
		t.Error("friend node feature bits missing")
	}
}

func TestAddElement(t *testing.T) {
	d := NewDevice("lpn-01", 0x0131, 0x3125, 0x0002)

	if err := d.AddElement(NewElement(1, LocationMain)); err != nil {
		t.Fatalf("AddElement() error = %v", err)
	}
	if err := d.AddElement(NewElement(1, LocationMain)); err != ErrDuplicateElement {
		t.Errorf("duplicate AddElement() error = %v, want ErrDuplicateElement", err)
	}

	if _, err := d.Element(1); err != nil {
		t.Errorf("Element(1) error = %v", err)
	}
	if _, err := d.Element(9); err != ErrElementNotFound {
		t.Errorf("Element(9) error = %v, want ErrElementNotFound", err)
	}

	elements := d.Elements()
	if len(elements) != 2 || elements[0].Index() != 0 || elements[1].Index() != 1 {
		t.Errorf("Elements() order wrong: %v", elements)
	}
}

func TestElementModels(t *testing.T) {
	e := NewElement(0, LocationMain)

	e.AddModel(ModelDeviceServer)
	e.AddModel(ModelUserPropertyServer)
	e.AddModel(ModelPowerOnOffServer)

	if !e.HasModel(ModelPowerOnOffServer) {
		t.Error("HasModel(ModelPowerOnOffServer) = false")
	}
	if e.HasModel(ModelNetworkFilterServer) {
		t.Error("HasModel(ModelNetworkFilterServer) = true, want false")
	}
	if len(e.Models()) != 3 {
		t.Errorf("Models() count = %d, want 3", len(e.Models()))
	}
}

func TestElementOnOffState(t *testing.T) {
	e := NewElement(0, LocationMain)

	if e.OnOff().Present {
		t.Error("initial Present = true, want false")
	}

	e.SetOnOff(OnOffState{Present: true, Target: true})

	got := e.OnOff()
	if !got.Present || !got.Target {
		t.Errorf("OnOff() = %+v, want both true", got)
	}
}

func TestElementTransitionTime(t *testing.T) {
	e := NewElement(0, LocationMain)

	if e.TransitionTime() != DefaultTransitionTime {
		t.Errorf("TransitionTime() = %v, want %v", e.TransitionTime(), DefaultTransitionTime)
	}

	e.SetTransitionTime(250 * time.Millisecond)
	if e.TransitionTime() != 250*time.Millisecond {
		t.Errorf("TransitionTime() = %v after set", e.TransitionTime())
	}
}

func TestElementProperties(t *testing.T) {
	e := NewElement(0, LocationMain)

	p := NewProperty(PropertyDeviceFirmwareRevision, AccessReadable, 8)
	if err := p.SetValue([]byte("06.02.05")); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	e.SetProperty(p)

	got, err := e.Property(PropertyDeviceFirmwareRevision)
	if err != nil {
		t.Fatalf("Property() error = %v", err)
	}
	if string(got.Value()) != "06.02.05" {
		t.Errorf("Value() = %q", got.Value())
	}

	if _, err := e.Property(PropertyDeviceModelNumber); err != ErrPropertyNotFound {
		t.Errorf("missing property error = %v, want ErrPropertyNotFound", err)
	}

	if err := p.SetValue([]byte("too long for eight")); err != ErrPropertyTooLong {
		t.Errorf("oversize SetValue() error = %v, want ErrPropertyTooLong", err)
	}
}
