package internal

// RefType classifies a cross-reference number attached to an article.
type RefType string

const (
	RefEAN         RefType = "EAN"
	RefTrade       RefType = "TRADE"
	RefOE          RefType = "OE"
	RefComparable  RefType = "COMPARABLE"
	RefReplacement RefType = "REPLACEMENT"
	RefReplaced    RefType = "REPLACED"
)

// Reference is one canonical cross-reference number for a parent article.
// At most one EAN exists per parent (first seen wins); every other type
// allows multiplicity but is unique on (parent, type, number, source).
type Reference struct {
	ParentID   int
	Type       RefType
	Number     string
	SourceName string
}

// ArticleRow is one exported article record.
type ArticleRow struct {
	ArticleID                 int
	SupplierID                int
	MfrID                     string
	BrandName                 string
	ArticleNumber             string
	ArticleName               string
	GenericArticleID          string
	GenericArticleDescription string
	CategoryPath              string
	CategoryNodeIDs           string
	ImageURLs                 string
	PDFURLs                   string
	IsAccessory               string
	ArticleStatusID           string
	ArticleStatusDescription  string
	QuantityPerPackage        string
}

// AttributeRow is one article criteria/attribute record.
type AttributeRow struct {
	ArticleID           int
	CriteriaID          string
	CriteriaDescription string
	CriteriaAbbr        string
	ValueRaw            string
	ValueFormatted      string
	Unit                string
	ImmediateDisplay    string
	IsInterval          string
}

// VehicleRow is one vehicle application as it appears in the export.
// Enrichment-only fields (FuelType, DriveType, KBANumbers, EngineCode,
// OtherRestrictions) stay empty when no linkage detail was matched.
type VehicleRow struct {
	ParentID          int
	MfrName           string
	ModelSeries       string
	TypeName          string
	YearFrom          string
	YearTo            string
	DisplacementCC    string
	PowerHP           string
	FuelType          string
	BodyStyle         string
	DriveType         string
	KBANumbers        string
	EngineCode        string
	OtherRestrictions string
}

// VehicleLink is a provisional vehicle application held until correlation.
// TargetKey is the locally observed linkage-target id; it is not in the
// same identifier space as LinkageDetail.DetailKey, which is why the
// correlator needs fallback strategies at all.
type VehicleLink struct {
	Row       VehicleRow
	TargetKey int
	MfrID     int
}

// LinkageDetail is one entry from the detail catalog, parsed out of a raw
// linkage-target record. DetailKey is the catalog's own id.
type LinkageDetail struct {
	DetailKey      int
	MfrID          int
	Description    string
	ModelSeries    string
	PowerHP        string
	DisplacementCC string
	BeginYearMonth string
	FuelType       string
	DriveType      string
	BodyStyle      string
	KBANumbers     []string
	EngineCodes    []string
	Restrictions   []string
}

// ArticleRef identifies one article to export: the data supplier id plus
// the supplier's article number.
type ArticleRef struct {
	SupplierID int
	Number     string
}

// RunSummary is the per-run bookkeeping row persisted alongside results.
type RunSummary struct {
	RunID      string
	Articles   int
	Attributes int
	References int
	Vehicles   int
	Matched    int
	Unmatched  int
}
