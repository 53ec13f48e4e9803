package region

import (
	_ "embed"
	"encoding/json"

	"goregion/internal/core"
)

// StaticDatasetVersion identifies the vintage of the embedded province
// table (38 provinces, post-2022 Papua split).
const StaticDatasetVersion = "2022.1"

//go:embed provinces.json
var provincesJSON []byte

var staticProvinces = mustLoadProvinces()

func mustLoadProvinces() []core.Region {
	var out []core.Region
	if err := json.Unmarshal(provincesJSON, &out); err != nil {
		panic("region: embedded province dataset is invalid: " + err.Error())
	}
	if len(out) == 0 {
		panic("region: embedded province dataset is empty")
	}
	return out
}

// StaticProvinces returns the embedded fallback province list. Provinces
// are the entry point of every address form and must never come back
// empty, even with every live source down. Callers get a copy.
func StaticProvinces() []core.Region {
	return core.CloneRegions(staticProvinces)
}
