package models

// NoData is the sentinel shown wherever an optional field is absent.
// Projection helpers apply it in one place so callers never see "".
const NoData = "no data"

// HerbRecord is one catalog entry. Records are immutable after load;
// query components receive copies and never write back.
type HerbRecord struct {
	ID          int64    `json:"id"`
	ChineseName string   `json:"chinese_name"`
	LatinName   string   `json:"latin_name"`
	Family      string   `json:"family"`
	Grade       string   `json:"grade"`
	UsedPart    string   `json:"used_part"`
	Chemistry   string   `json:"chemistry,omitempty"`
	Indications string   `json:"indications,omitempty"`
	Effects     []string `json:"effects"`
	ChemMain    string   `json:"chem_main,omitempty"`
	ChemSub     string   `json:"chem_sub,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// SubCategory is one {local, foreign} label pair. Local is the join key
// matched against HerbRecord.ChemSub.
type SubCategory struct {
	Local   string `json:"ch"`
	Foreign string `json:"en"`
}

// CategoryNode is one top-level entry of the category taxonomy.
type CategoryNode struct {
	NameLocal     string        `json:"name_ch"`
	NameForeign   string        `json:"name_en"`
	Intro         string        `json:"intro,omitempty"`
	SubCategories []SubCategory `json:"subcategories"`
}
