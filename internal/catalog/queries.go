package catalog

import "strings"

// LinkPair is one (articleLinkId, linkingTargetId) pair from the linkage
// listing, echoed back when requesting linked vehicle details.
type LinkPair struct {
	ArticleLinkID   int `json:"articleLinkId"`
	LinkingTargetID int `json:"linkingTargetId"`
}

// DetailBatchSize is the upstream limit on link pairs per detail request.
const DetailBatchSize = 25

// Query builders. Every report type is one payload shape against the same
// endpoint; keeping them together makes the full upstream surface visible.

func (c *Client) ArticlesQuery(supplierID int, articleNumber string) map[string]any {
	return map[string]any{
		"getArticles": map[string]any{
			"articleCountry":            c.cfg.Country,
			"provider":                  c.cfg.TecdocProvider,
			"searchQuery":               articleNumber,
			"dataSupplierIds":           supplierID,
			"lang":                      c.cfg.Language,
			"includeMisc":               true,
			"includeGenericArticles":    true,
			"includeImages":             true,
			"includePDFs":               true,
			"includeArticleCriteria":    true,
			"includeOEMNumbers":         true,
			"includeComparableNumbers":  true,
			"includeTradeNumbers":       true,
			"includeReplacedByArticles": true,
			"includeReplacesArticles":   true,
			"includeGTINs":              true,
			"assemblyGroupFacetOptions": map[string]any{
				"enabled":             true,
				"assemblyGroupType":   "O",
				"includeCompleteTree": true,
			},
		},
	}
}

// AllNumbersQuery searches every reference number type at once
// (searchType 10: IAM, OE, trade, comparable, replacement, replaced, EAN).
func (c *Client) AllNumbersQuery(articleNumber string, genericArticleIDs []int) map[string]any {
	return map[string]any{
		"getArticles": map[string]any{
			"provider":          c.cfg.TecdocProvider,
			"articleCountry":    strings.ToUpper(c.cfg.Country),
			"lang":              c.cfg.Language,
			"searchQuery":       articleNumber,
			"searchType":        10,
			"genericArticleIds": genericArticleIDs,
			"includeAll":        true,
		},
	}
}

func (c *Client) DirectSearchQuery(supplierID int, articleNumber string) map[string]any {
	return map[string]any{
		"getArticleDirectSearchAllNumbersWithState": map[string]any{
			"articleCountry": c.cfg.Country,
			"articleNumber":  articleNumber,
			"brandId":        supplierID,
			"lang":           c.cfg.Language,
			"numberType":     0,
			"provider":       c.cfg.TecdocProvider,
			"includeImages":  true,
		},
	}
}

func (c *Client) LinkedManufacturersQuery(articleID int, targetType string) map[string]any {
	return map[string]any{
		"getArticleLinkedAllLinkingTargetManufacturer2": map[string]any{
			"articleCountry":    c.cfg.Country,
			"articleId":         articleID,
			"country":           c.cfg.Country,
			"linkingTargetType": targetType,
			"provider":          c.cfg.TecdocProvider,
		},
	}
}

func (c *Client) LinkagesByManufacturerQuery(articleID, mfrID int, targetType string) map[string]any {
	return map[string]any{
		"getArticleLinkedAllLinkingTarget4": map[string]any{
			"articleCountry":      c.cfg.Country,
			"articleId":           articleID,
			"country":             c.cfg.Country,
			"lang":                c.cfg.Language,
			"linkingTargetManuId": mfrID,
			"linkingTargetType":   targetType,
			"provider":            c.cfg.TecdocProvider,
		},
	}
}

func (c *Client) DetailedLinkagesQuery(articleID int, pairs []LinkPair, targetType string) map[string]any {
	return map[string]any{
		"getArticleLinkedAllLinkingTargetsByIds3": map[string]any{
			"articleCountry":     c.cfg.Country,
			"articleId":          articleID,
			"immediateAttributs": true,
			"includeLinkages":    true,
			"lang":               c.cfg.Language,
			"linkedArticlePairs": map[string]any{"array": pairs},
			"linkingTargetType":  targetType,
			"provider":           c.cfg.TecdocProvider,
		},
	}
}

func (c *Client) LinkageTargetsQuery(mfrIDs []int, targetType string, page int) map[string]any {
	return map[string]any{
		"getLinkageTargets": map[string]any{
			"provider":             c.cfg.TecdocProvider,
			"linkageTargetCountry": strings.ToUpper(c.cfg.Country),
			"lang":                 c.cfg.Language,
			"linkageTargetType":    targetType,
			"mfrIds":               mfrIDs,
			"perPage":              PageSize,
			"page":                 page,
		},
	}
}

func (c *Client) BrandInfoQuery(supplierID int) map[string]any {
	return map[string]any{
		"getBrandInfo": map[string]any{
			"articleCountry": c.cfg.Country,
			"supplierId":     supplierID,
			"lang":           c.cfg.Language,
			"provider":       c.cfg.TecdocProvider,
		},
	}
}
