package audio

import (
	"fmt"

	"github.com/777genius/audiocycle/internal/logging"
)

const fallbackNamePrefix = "Audio Device (Unknown Name) - "

// endpointEnumerator mirrors the parts of IMMDeviceEnumerator used here
type endpointEnumerator interface {
	DefaultEndpointID(role Role) (string, error)
	ActiveRenderEndpoints() (endpointCollection, error)
}

type endpointCollection interface {
	Count() (int, error)
	Item(i int) (endpoint, error)
	Release()
}

type endpoint interface {
	ID() (string, error)
	OpenPropertyStore() (propertyStore, error)
	Release()
}

type propertyStore interface {
	// FriendlyName fetches PKEY_Device_FriendlyName
	FriendlyName() (variant, error)
	Release()
}

// enumerate builds a device snapshot in OS order.
// Only an unreadable collection or endpoint id fails the call; names fall back per device.
func enumerate(en endpointEnumerator) ([]AudioDevice, error) {
	defaultID, err := en.DefaultEndpointID(RoleMultimedia)
	if err != nil {
		logging.Debug("No default render endpoint: %v", err)
		defaultID = ""
	}

	collection, err := en.ActiveRenderEndpoints()
	if err != nil {
		return nil, &EnumerationError{Op: "enum endpoints", Err: err}
	}
	defer collection.Release()

	count, err := collection.Count()
	if err != nil {
		return nil, &EnumerationError{Op: "get count", Err: err}
	}

	devices := make([]AudioDevice, 0, count)
	for i := 0; i < count; i++ {
		dev, err := readEndpoint(collection, i, defaultID)
		if err != nil {
			return nil, err
		}
		devices = append(devices, dev)
	}

	logging.Debug("Enumerated %d render endpoints (default=%q)", len(devices), defaultID)
	return devices, nil
}

func readEndpoint(collection endpointCollection, i int, defaultID string) (AudioDevice, error) {
	ep, err := collection.Item(i)
	if err != nil {
		return AudioDevice{}, &EnumerationError{Op: fmt.Sprintf("get item %d", i), Err: err}
	}
	defer ep.Release()

	id, err := ep.ID()
	if err != nil {
		return AudioDevice{}, &EnumerationError{Op: "get ID", Err: err}
	}

	return AudioDevice{
		ID:        id,
		Name:      endpointName(ep, id),
		IsDefault: defaultID != "" && id == defaultID,
	}, nil
}

// endpointName reads the friendly name of ep and never fails;
// any problem yields the fallback name built from id
func endpointName(ep endpoint, id string) string {
	store, err := ep.OpenPropertyStore()
	if err != nil {
		logging.Debug("Open property store failed for %s: %v", id, err)
		return fallbackName(id)
	}
	defer store.Release()

	return decodeFriendlyName(store, id)
}

func decodeFriendlyName(store propertyStore, id string) string {
	v, err := store.FriendlyName()
	if err != nil {
		logging.Debug("Friendly name lookup failed for %s: %v", id, err)
		return fallbackName(id)
	}
	defer func() {
		if err := v.Clear(); err != nil {
			logging.Warn("Failed to clear property value for %s: %v", id, err)
		}
	}()

	name, ok := decodeVariantString(v)
	if !ok {
		return fallbackName(id)
	}
	return name
}

func fallbackName(id string) string {
	return fallbackNamePrefix + id
}
