package invconfig

// BusinessType selects a built-in inventory preset.
type BusinessType string

const (
	BusinessTypeRetail      BusinessType = "retail"
	BusinessTypeGrocery     BusinessType = "grocery"
	BusinessTypePharmacy    BusinessType = "pharmacy"
	BusinessTypeElectronics BusinessType = "electronics"
	BusinessTypeClothing    BusinessType = "clothing"
	BusinessTypeRestaurant  BusinessType = "restaurant"
)

// FieldRule controls how one inventory form field behaves.
type FieldRule struct {
	Visible  bool   `json:"visible"`
	Required bool   `json:"required"`
	Label    string `json:"label,omitempty"`
}

// Preset is an immutable bundle of feature flags and field rules keyed by
// business type. Presets are never mutated; Merge copies them.
type Preset struct {
	Type     BusinessType         `json:"type"`
	Features map[string]bool      `json:"features"`
	Fields   map[string]FieldRule `json:"fields"`
}

// FieldRuleOverride is a sparse override of one field rule. Nil means
// "inherit from the preset", including an explicit false for the booleans.
type FieldRuleOverride struct {
	Visible  *bool   `json:"visible,omitempty"`
	Required *bool   `json:"required,omitempty"`
	Label    *string `json:"label,omitempty"`
}

// Override is a sparse operator customization applied on top of a preset.
type Override struct {
	Features map[string]*bool             `json:"features,omitempty"`
	Fields   map[string]FieldRuleOverride `json:"fields,omitempty"`
}

// EffectiveConfig is the merged result consumed by the inventory UI and
// stock/batch logic.
type EffectiveConfig struct {
	Type     BusinessType         `json:"type"`
	Features map[string]bool      `json:"features"`
	Fields   map[string]FieldRule `json:"fields"`
}

// Merge deep-merges an override into a preset across the two known levels:
// the flat feature map and the field-rule map. An override value wins only
// when explicitly present (including explicit false); absence inherits the
// preset. Override keys the preset does not know are ignored. Merge is a
// pure function and idempotent: merging the same override twice yields the
// same result as once.
func Merge(preset Preset, override Override) EffectiveConfig {
	cfg := EffectiveConfig{
		Type:     preset.Type,
		Features: make(map[string]bool, len(preset.Features)),
		Fields:   make(map[string]FieldRule, len(preset.Fields)),
	}

	for name, enabled := range preset.Features {
		if v, ok := override.Features[name]; ok && v != nil {
			cfg.Features[name] = *v
			continue
		}
		cfg.Features[name] = enabled
	}

	for name, rule := range preset.Fields {
		if o, ok := override.Fields[name]; ok {
			if o.Visible != nil {
				rule.Visible = *o.Visible
			}
			if o.Required != nil {
				rule.Required = *o.Required
			}
			if o.Label != nil {
				rule.Label = *o.Label
			}
		}
		cfg.Fields[name] = rule
	}

	return cfg
}

// PresetFor returns the built-in preset for a business type, falling back
// to the retail preset for unknown types.
func PresetFor(t BusinessType) Preset {
	if p, ok := presets[t]; ok {
		return p
	}
	return presets[BusinessTypeRetail]
}

// Feature and field names shared by the built-in presets.
const (
	FeatureExpiryTracking = "expiryTracking"
	FeatureBatchTracking  = "batchTracking"
	FeatureSerialTracking = "serialTracking"
	FeatureSizeVariants   = "sizeVariants"
	FeatureLowStockAlerts = "lowStockAlerts"

	FieldBatchNumber = "batchNumber"
	FieldExpiryDate  = "expiryDate"
	FieldIssueDate   = "issueDate"
	FieldBarcode     = "barcode"
	FieldBrand       = "brand"
	FieldSize        = "size"
	FieldWarranty    = "warranty"
)

var presets = map[BusinessType]Preset{
	BusinessTypeRetail: {
		Type: BusinessTypeRetail,
		Features: map[string]bool{
			FeatureExpiryTracking: false,
			FeatureBatchTracking:  false,
			FeatureSerialTracking: false,
			FeatureSizeVariants:   false,
			FeatureLowStockAlerts: true,
		},
		Fields: map[string]FieldRule{
			FieldBarcode:     {Visible: true},
			FieldBrand:       {Visible: true},
			FieldBatchNumber: {Visible: false},
			FieldExpiryDate:  {Visible: false},
			FieldIssueDate:   {Visible: false},
			FieldSize:        {Visible: false},
			FieldWarranty:    {Visible: false},
		},
	},
	BusinessTypeGrocery: {
		Type: BusinessTypeGrocery,
		Features: map[string]bool{
			FeatureExpiryTracking: true,
			FeatureBatchTracking:  true,
			FeatureSerialTracking: false,
			FeatureSizeVariants:   false,
			FeatureLowStockAlerts: true,
		},
		Fields: map[string]FieldRule{
			FieldBarcode:     {Visible: true},
			FieldBrand:       {Visible: true},
			FieldBatchNumber: {Visible: true},
			FieldExpiryDate:  {Visible: true, Required: true},
			FieldIssueDate:   {Visible: true},
			FieldSize:        {Visible: false},
			FieldWarranty:    {Visible: false},
		},
	},
	BusinessTypePharmacy: {
		Type: BusinessTypePharmacy,
		Features: map[string]bool{
			FeatureExpiryTracking: true,
			FeatureBatchTracking:  true,
			FeatureSerialTracking: false,
			FeatureSizeVariants:   false,
			FeatureLowStockAlerts: true,
		},
		Fields: map[string]FieldRule{
			FieldBarcode:     {Visible: true},
			FieldBrand:       {Visible: true, Label: "Manufacturer"},
			FieldBatchNumber: {Visible: true, Required: true},
			FieldExpiryDate:  {Visible: true, Required: true},
			FieldIssueDate:   {Visible: true},
			FieldSize:        {Visible: false},
			FieldWarranty:    {Visible: false},
		},
	},
	BusinessTypeElectronics: {
		Type: BusinessTypeElectronics,
		Features: map[string]bool{
			FeatureExpiryTracking: false,
			FeatureBatchTracking:  false,
			FeatureSerialTracking: true,
			FeatureSizeVariants:   false,
			FeatureLowStockAlerts: true,
		},
		Fields: map[string]FieldRule{
			FieldBarcode:     {Visible: true, Required: true},
			FieldBrand:       {Visible: true, Required: true},
			FieldBatchNumber: {Visible: false},
			FieldExpiryDate:  {Visible: false},
			FieldIssueDate:   {Visible: false},
			FieldSize:        {Visible: false},
			FieldWarranty:    {Visible: true, Required: true},
		},
	},
	BusinessTypeClothing: {
		Type: BusinessTypeClothing,
		Features: map[string]bool{
			FeatureExpiryTracking: false,
			FeatureBatchTracking:  false,
			FeatureSerialTracking: false,
			FeatureSizeVariants:   true,
			FeatureLowStockAlerts: true,
		},
		Fields: map[string]FieldRule{
			FieldBarcode:     {Visible: true},
			FieldBrand:       {Visible: true},
			FieldBatchNumber: {Visible: false},
			FieldExpiryDate:  {Visible: false},
			FieldIssueDate:   {Visible: false},
			FieldSize:        {Visible: true, Required: true},
			FieldWarranty:    {Visible: false},
		},
	},
	BusinessTypeRestaurant: {
		Type: BusinessTypeRestaurant,
		Features: map[string]bool{
			FeatureExpiryTracking: true,
			FeatureBatchTracking:  false,
			FeatureSerialTracking: false,
			FeatureSizeVariants:   false,
			FeatureLowStockAlerts: true,
		},
		Fields: map[string]FieldRule{
			FieldBarcode:     {Visible: false},
			FieldBrand:       {Visible: false},
			FieldBatchNumber: {Visible: false},
			FieldExpiryDate:  {Visible: true},
			FieldIssueDate:   {Visible: false},
			FieldSize:        {Visible: false},
			FieldWarranty:    {Visible: false},
		},
	},
}
