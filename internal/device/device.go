package device

import (
	"encoding/hex"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Device describes the Android handset every request claims to come from.
// The platform refuses configure calls whose device block is missing or
// inconsistent with the user agent, so the same Device must back both.
type Device struct {
	Manufacturer   string
	Model          string
	Codename       string
	Chipset        string
	AndroidVersion int
	AndroidRelease string
	DPI            string
	Resolution     string

	// Identifiers the wire expects in GUID shape.
	GUID          string
	PhoneID       string
	AdvertisingID string
	// DeviceID is the android-<16 hex> token sent on upload calls.
	DeviceID string
}

type profile struct {
	manufacturer   string
	model          string
	codename       string
	chipset        string
	androidVersion int
	androidRelease string
	dpi            string
	resolution     string
}

var profiles = []profile{
	{"Xiaomi", "Redmi Note 4", "mido", "qcom", 24, "7.0", "440dpi", "1080x1920"},
	{"samsung", "SM-G950F", "dreamlte", "samsungexynos8895", 26, "8.0.0", "480dpi", "1080x2220"},
	{"OnePlus", "ONEPLUS A5000", "OnePlus5", "qcom", 27, "8.1.0", "420dpi", "1080x1920"},
	{"HUAWEI", "ANE-LX1", "HWANE", "hi6250", 26, "8.0.0", "480dpi", "1080x2280"},
}

// New derives a handset profile from the seed and generates fresh GUIDs.
// The same seed always yields the same handset, so a stored seed keeps the
// fingerprint stable across runs while the GUIDs stay per-install.
func New(seed int64) Device {
	rng := rand.New(rand.NewSource(seed))
	p := profiles[rng.Intn(len(profiles))]

	idBytes := make([]byte, 8)
	rng.Read(idBytes)

	return Device{
		Manufacturer:   p.manufacturer,
		Model:          p.model,
		Codename:       p.codename,
		Chipset:        p.chipset,
		AndroidVersion: p.androidVersion,
		AndroidRelease: p.androidRelease,
		DPI:            p.dpi,
		Resolution:     p.resolution,
		GUID:           uuid.NewString(),
		PhoneID:        uuid.NewString(),
		AdvertisingID:  uuid.NewString(),
		DeviceID:       "android-" + hex.EncodeToString(idBytes),
	}
}

// UserAgent assembles the app user agent string for this handset.
func (d Device) UserAgent() string {
	return fmt.Sprintf("Instagram 85.0.0.21.100 Android (%d/%s; %s; %s; %s; %s; %s; %s; en_US)",
		d.AndroidVersion, d.AndroidRelease, d.DPI, d.Resolution,
		d.Manufacturer, d.Model, d.Codename, d.Chipset)
}

// Payload returns the device block embedded in configure calls.
func (d Device) Payload() map[string]any {
	return map[string]any{
		"manufacturer":    d.Manufacturer,
		"model":           d.Model,
		"android_version": d.AndroidVersion,
		"android_release": d.AndroidRelease,
	}
}
