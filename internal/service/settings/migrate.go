package settings

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// currentVersion is bumped whenever the snapshot shape changes; each bump
// adds one entry to the chain below.
const currentVersion = 3

// migrations are pure transforms applied in increasing version order. Entry
// i upgrades a version-(i+1) snapshot to version i+2.
var migrations = []func(map[string]interface{}){
	// v1 -> v2: split the single "sound" flag into enabled + volume.
	func(m map[string]interface{}) {
		if v, ok := m["sound"]; ok {
			m["soundEnabled"] = v
			delete(m, "sound")
		}
		if _, ok := m["soundVolume"]; !ok {
			m["soundVolume"] = 1.0
		}
	},
	// v2 -> v3: layout became a named preset; speech cues gained a toggle.
	func(m map[string]interface{}) {
		if _, ok := m["layout"]; !ok {
			m["layout"] = "standard"
		}
		if _, ok := m["speechEnabled"]; !ok {
			m["speechEnabled"] = false
		}
	},
}

func migrate(raw datatypes.JSON, fromVersion int) (datatypes.JSON, int) {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		m = defaultSettings()
		fromVersion = currentVersion
	}

	if fromVersion < 1 {
		fromVersion = 1
	}
	for v := fromVersion; v < currentVersion; v++ {
		migrations[v-1](m)
	}

	out, err := json.Marshal(m)
	if err != nil {
		return raw, fromVersion
	}
	return datatypes.JSON(out), currentVersion
}
