package planner

import (
	"strings"
	"unicode/utf8"

	"github.com/yuneten/tabiplan/internal/types"
)

const maxNameLength = 40

// Category keys used across the planner.
const (
	CategoryCulture  = "culture"
	CategoryNature   = "nature"
	CategoryRelax    = "relax"
	CategoryGourmet  = "gourmet"
	CategoryActivity = "activity"
	CategoryShopping = "shopping"
	CategoryOther    = "other"
)

// typeRule matches one OSM tag against a fine-grained spot type. Rules are
// evaluated in order and the first match wins.
type typeRule struct {
	key      string
	values   []string
	spotType string
}

// Classification is data, not control flow: the precedence table below plus
// the lookup maps fully determine type, category, icon and description.
var defaultTypeRules = []typeRule{
	{key: "historic", values: []string{"castle"}, spotType: "castle"},
	{key: "religion", values: []string{"buddhist"}, spotType: "temple"},
	{key: "religion", values: []string{"shinto"}, spotType: "shrine"},
	{key: "tourism", values: []string{"museum"}, spotType: "museum"},
	{key: "tourism", values: []string{"gallery"}, spotType: "gallery"},
	{key: "tourism", values: []string{"theme_park"}, spotType: "theme_park"},
	{key: "heritage", values: []string{"1"}, spotType: "heritage"},
	{key: "natural", values: []string{"hot_spring"}, spotType: "hot_spring"},
	{key: "amenity", values: []string{"public_bath"}, spotType: "hot_spring"},
	{key: "leisure", values: []string{"spa"}, spotType: "hot_spring"},
	{key: "leisure", values: []string{"park", "garden"}, spotType: "park"},
	{key: "tourism", values: []string{"viewpoint"}, spotType: "viewpoint"},
	{key: "tourism", values: []string{"zoo"}, spotType: "zoo"},
	{key: "tourism", values: []string{"aquarium"}, spotType: "aquarium"},
	{key: "leisure", values: []string{"water_park"}, spotType: "water_park"},
	{key: "amenity", values: []string{"theatre"}, spotType: "theatre"},
	{key: "amenity", values: []string{"library"}, spotType: "library"},
	{key: "amenity", values: []string{"cinema"}, spotType: "cinema"},
	{key: "amenity", values: []string{"restaurant", "cafe", "fast_food", "food_court", "bar", "pub"}, spotType: "restaurant"},
	{key: "shop", values: []string{"mall", "department_store"}, spotType: "shopping_mall"},
	{key: "amenity", values: []string{"marketplace"}, spotType: "market"},
	{key: "tourism", values: []string{"attraction"}, spotType: "attraction"},
}

var defaultTypeCategories = map[string]string{
	"castle":        CategoryCulture,
	"temple":        CategoryCulture,
	"shrine":        CategoryCulture,
	"museum":        CategoryCulture,
	"gallery":       CategoryCulture,
	"heritage":      CategoryCulture,
	"theatre":       CategoryCulture,
	"library":       CategoryCulture,
	"attraction":    CategoryCulture,
	"park":          CategoryNature,
	"viewpoint":     CategoryNature,
	"hot_spring":    CategoryRelax,
	"restaurant":    CategoryGourmet,
	"theme_park":    CategoryActivity,
	"zoo":           CategoryActivity,
	"aquarium":      CategoryActivity,
	"water_park":    CategoryActivity,
	"cinema":        CategoryActivity,
	"shopping_mall": CategoryShopping,
	"market":        CategoryShopping,
}

var defaultCategoryLabels = map[string]string{
	CategoryCulture:  "文化・歴史",
	CategoryNature:   "自然",
	CategoryRelax:    "癒し",
	CategoryGourmet:  "グルメ",
	CategoryActivity: "アクティビティ",
	CategoryShopping: "ショッピング",
	CategoryOther:    "その他",
}

var defaultCategoryIcons = map[string]string{
	CategoryCulture:  "🏯",
	CategoryNature:   "🌳",
	CategoryRelax:    "♨️",
	CategoryGourmet:  "🍜",
	CategoryActivity: "🎢",
	CategoryShopping: "🛍️",
	CategoryOther:    "📍",
}

var defaultTypeDescriptions = map[string]string{
	"castle":        "歴史ある城郭",
	"temple":        "由緒ある寺院",
	"shrine":        "由緒ある神社",
	"museum":        "見応えのある博物館",
	"gallery":       "アートが楽しめる美術館",
	"heritage":      "世界遺産に登録された名所",
	"theatre":       "舞台芸術が楽しめる劇場",
	"library":       "落ち着いた図書館",
	"attraction":    "人気の観光名所",
	"park":          "のんびり過ごせる公園",
	"viewpoint":     "眺めの良い展望スポット",
	"hot_spring":    "ゆったりくつろげる温泉",
	"restaurant":    "地元の味が楽しめるお店",
	"theme_park":    "一日中遊べるテーマパーク",
	"zoo":           "動物とふれあえる動物園",
	"aquarium":      "海の生き物に出会える水族館",
	"water_park":    "水遊びが楽しいウォーターパーク",
	"cinema":        "映画が楽しめるシネマ",
	"shopping_mall": "買い物が楽しめるモール",
	"market":        "活気あふれる市場",
}

var defaultTypeTags = map[string]string{
	"castle":        "城",
	"temple":        "寺院",
	"shrine":        "神社",
	"museum":        "博物館",
	"gallery":       "美術館",
	"heritage":      "世界遺産",
	"theatre":       "劇場",
	"library":       "図書館",
	"attraction":    "観光地",
	"park":          "公園",
	"viewpoint":     "展望台",
	"hot_spring":    "温泉",
	"restaurant":    "飲食店",
	"theme_park":    "テーマパーク",
	"zoo":           "動物園",
	"aquarium":      "水族館",
	"water_park":    "ウォーターパーク",
	"cinema":        "映画館",
	"shopping_mall": "ショッピング",
	"market":        "市場",
}

// Substrings that mark facility noise rather than a destination: staff
// posts, signage, boarding points, parking, restrooms, entrances/exits,
// reception desks, kiosks, gates and standalone monuments.
var defaultNameBlockList = []string{
	"詰所", "案内", "地図", "乗り場", "駐車場", "トイレ",
	"入口", "出口", "受付", "売店", "ゲート", "記念碑",
}

// Catalog normalizes raw source records into Spots. The tables are fixed at
// construction; Normalize is deterministic and idempotent over its input.
type Catalog struct {
	typeRules        []typeRule
	typeCategories   map[string]string
	categoryLabels   map[string]string
	categoryIcons    map[string]string
	typeDescriptions map[string]string
	typeTags         map[string]string
	nameBlockList    []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		typeRules:        defaultTypeRules,
		typeCategories:   defaultTypeCategories,
		categoryLabels:   defaultCategoryLabels,
		categoryIcons:    defaultCategoryIcons,
		typeDescriptions: defaultTypeDescriptions,
		typeTags:         defaultTypeTags,
		nameBlockList:    defaultNameBlockList,
	}
}

// Normalize shapes one raw record into a Spot. The boolean reports whether
// the record passed validation; rejection reasons are checked in order:
// missing name, missing coordinates, overlong name, noise name.
func (c *Catalog) Normalize(raw types.RawSpot) (types.Spot, bool) {
	name := spotName(raw.Tags)
	if name == "" {
		return types.Spot{}, false
	}
	if raw.Latitude == nil || raw.Longitude == nil {
		return types.Spot{}, false
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return types.Spot{}, false
	}
	for _, blocked := range c.nameBlockList {
		if strings.Contains(name, blocked) {
			return types.Spot{}, false
		}
	}

	spotType := c.classifyType(raw)
	categoryKey := c.categoryForType(spotType)

	return types.Spot{
		ID:            raw.ID,
		Name:          name,
		Coordinates:   &types.Coordinates{Latitude: *raw.Latitude, Longitude: *raw.Longitude},
		Type:          spotType,
		CategoryKey:   categoryKey,
		CategoryLabel: c.categoryLabels[categoryKey],
		Icon:          c.categoryIcons[categoryKey],
		Description:   c.description(raw.Tags, spotType),
		Address:       spotAddress(raw.Tags),
		Website:       spotWebsite(raw.Tags),
		OpeningHours:  raw.Tags["opening_hours"],
		Phone:         firstTag(raw.Tags, "phone", "contact:phone"),
		Tags:          c.spotTags(spotType, categoryKey),
	}, true
}

// NormalizeAll normalizes a batch, dropping rejects and deduplicating by
// source ID (first occurrence wins).
func (c *Catalog) NormalizeAll(raws []types.RawSpot) []types.Spot {
	seen := make(map[string]bool, len(raws))
	spots := make([]types.Spot, 0, len(raws))
	for _, raw := range raws {
		if seen[raw.ID] {
			continue
		}
		spot, ok := c.Normalize(raw)
		if !ok {
			continue
		}
		seen[raw.ID] = true
		spots = append(spots, spot)
	}
	return spots
}

func (c *Catalog) classifyType(raw types.RawSpot) string {
	for _, rule := range c.typeRules {
		value, ok := raw.Tags[rule.key]
		if !ok {
			continue
		}
		for _, v := range rule.values {
			if value == v {
				return rule.spotType
			}
		}
	}
	// Curated sources carry a pre-assigned type instead of OSM tags.
	if t := raw.Tags["type"]; t != "" {
		if _, known := c.typeCategories[t]; known {
			return t
		}
	}
	return "other"
}

func (c *Catalog) categoryForType(spotType string) string {
	if key, ok := c.typeCategories[spotType]; ok {
		return key
	}
	return CategoryOther
}

func (c *Catalog) description(tags map[string]string, spotType string) string {
	if d := tags["description"]; d != "" {
		return d
	}
	if d, ok := c.typeDescriptions[spotType]; ok {
		return d
	}
	return "おすすめの観光スポット"
}

func (c *Catalog) spotTags(spotType, categoryKey string) []string {
	tags := make([]string, 0, 2)
	if t, ok := c.typeTags[spotType]; ok {
		tags = append(tags, t)
	}
	if label, ok := c.categoryLabels[categoryKey]; ok && (len(tags) == 0 || tags[0] != label) {
		tags = append(tags, label)
	}
	if len(tags) == 0 {
		tags = append(tags, "観光スポット")
	}
	if len(tags) > 5 {
		tags = tags[:5]
	}
	return tags
}

func spotName(tags map[string]string) string {
	return firstTag(tags, "name:ja", "name", "name:en")
}

func spotWebsite(tags map[string]string) string {
	return firstTag(tags, "website", "contact:website", "url", "official_website")
}

func spotAddress(tags map[string]string) string {
	if full := tags["addr:full"]; full != "" {
		return full
	}
	parts := make([]string, 0, 3)
	for _, key := range []string{"addr:city", "addr:street", "addr:postcode"} {
		if v := tags[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return ""
}
