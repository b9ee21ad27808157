package gateway

import (
	"fmt"

	"github.com/sstallion/go-hid"
	"golang.org/x/exp/slices"
)

// UsbEnumerator lists connected devices matching the vendor and one of the product ids.
type UsbEnumerator func(vendorId uint16, productIds []uint16) ([]string, error)

// EnumerateHidDevices lists matching devices through hidapi.
func EnumerateHidDevices(vendorId uint16, productIds []uint16) ([]string, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("hidapi init: %w", err)
	}
	defer func() {
		_ = hid.Exit()
	}()

	var devices []string
	err := hid.Enumerate(vendorId, 0, func(info *hid.DeviceInfo) error {
		if !slices.Contains(productIds, info.ProductID) {
			return nil
		}
		// devices expose one entry per interface
		name := formatDevice(info.VendorID, info.ProductID, info.ProductStr)
		if !slices.Contains(devices, name) {
			devices = append(devices, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hid enumeration: %w", err)
	}
	return devices, nil
}

func formatDevice(vendorId, productId uint16, product string) string {
	id := fmt.Sprintf("%04x:%04x", vendorId, productId)
	if product == "" {
		return id
	}
	return fmt.Sprintf("%s %s", id, product)
}
