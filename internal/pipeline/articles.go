package pipeline

import (
	"tecex/internal"
	"tecex/internal/catalog"
	"tecex/internal/util"
)

var (
	criteriaAliases     = []string{"articleCriteria", "attributes", "criteria"}
	criteriaIDAliases   = []string{"criteriaId", "id"}
	criteriaDescAliases = []string{"criteriaDescription", "description"}
	criteriaAbbrAliases = []string{"criteriaAbbrDescription", "criteriaAbbr", "abbr"}
	valueRawAliases     = []string{"rawValue", "valueRaw", "value"}
	valueFmtAliases     = []string{"formattedValue", "valueFormatted", "value"}
	unitAliases         = []string{"criteriaUnitDescription", "unit"}
	genericArticleAlias = []string{"genericArticles"}
	mfrNameAliases      = []string{"mfrName"}
)

// ExtractArticle builds one article row from a raw getArticles record plus
// the assembly-group facet tree returned alongside it.
func ExtractArticle(rec map[string]any, facets map[string]any) internal.ArticleRow {
	supplierID, _ := catalog.ResolveInt(rec, "dataSupplierId")
	row := internal.ArticleRow{
		SupplierID:    supplierID,
		MfrID:         catalog.ResolveString(rec, "mfrId"),
		BrandName:     catalog.ResolveString(rec, mfrNameAliases...),
		ArticleNumber: catalog.ResolveString(rec, "articleNumber"),
	}

	if generics := catalog.NormalizeEnvelope(catalog.ResolveField(rec, genericArticleAlias...)); len(generics) > 0 {
		gen := generics[0]
		row.GenericArticleID = catalog.ResolveString(gen, "genericArticleId")
		row.GenericArticleDescription = catalog.ResolveString(gen, "genericArticleDescription")
		if legacy, ok := catalog.ResolveInt(gen, "legacyArticleId"); ok {
			row.ArticleID = legacy
		}
		// Simple assembly group as category fallback when no facet tree
		// came back.
		row.CategoryPath = catalog.ResolveString(gen, "assemblyGroupName")
		row.CategoryNodeIDs = catalog.ResolveString(gen, "assemblyGroupNodeId")
	}

	if path, nodeIDs := categoryFromFacets(facets); path != "" {
		row.CategoryPath = path
		row.CategoryNodeIDs = nodeIDs
	}

	if misc, ok := catalog.ResolveField(rec, "misc").(map[string]any); ok {
		row.IsAccessory = catalog.ResolveString(misc, "isAccessory")
		row.ArticleStatusID = catalog.ResolveString(misc, "articleStatusId")
		row.ArticleStatusDescription = catalog.ResolveString(misc, "articleStatusDescription")
		row.QuantityPerPackage = catalog.ResolveString(misc, "quantityPerPackage")
	}

	row.ImageURLs = util.JoinPipe(imageURLs(rec))
	row.PDFURLs = util.JoinPipe(catalog.ResolveStrings(rec, []string{"pdfs"}, []string{"url"}))

	return row
}

// ArticleNameFromDirectSearch pulls the display name out of a
// direct-search response; the first record carries it.
func ArticleNameFromDirectSearch(body map[string]any) string {
	records := catalog.NormalizeEnvelope(body)
	if len(records) == 0 {
		return ""
	}
	return catalog.ResolveString(records[0], "articleName")
}

// categoryFromFacets rebuilds the assembly-group path root-to-leaf from
// the flat facet node list.
func categoryFromFacets(facets map[string]any) (string, string) {
	if facets == nil {
		return "", ""
	}
	counts := catalog.NormalizeEnvelope(catalog.ResolveField(facets, "counts"))
	if len(counts) == 0 {
		return "", ""
	}

	var root map[string]any
	for _, node := range counts {
		if catalog.ResolveField(node, "parentNodeId") == nil {
			root = node
			break
		}
	}
	if root == nil {
		return "", ""
	}

	names := []string{catalog.ResolveString(root, "assemblyGroupName")}
	nodeIDs := []string{catalog.ResolveString(root, "assemblyGroupNodeId")}
	currentID, _ := catalog.ResolveInt(root, "assemblyGroupNodeId")

	for {
		advanced := false
		for _, node := range counts {
			parentID, ok := catalog.ResolveInt(node, "parentNodeId")
			if !ok || parentID != currentID {
				continue
			}
			names = append(names, catalog.ResolveString(node, "assemblyGroupName"))
			nodeIDs = append(nodeIDs, catalog.ResolveString(node, "assemblyGroupNodeId"))
			currentID, _ = catalog.ResolveInt(node, "assemblyGroupNodeId")
			advanced = true
			break
		}
		if !advanced {
			break
		}
	}

	return joinWith(names, " > "), util.JoinPipe(nodeIDs)
}

// imageURLs collects the largest rendition of each image, ordered by the
// upstream sort number.
func imageURLs(rec map[string]any) []string {
	images := catalog.NormalizeEnvelope(catalog.ResolveField(rec, "images"))
	out := make([]string, 0, len(images))
	for _, img := range images {
		if url := catalog.ResolveString(img, "imageURL3200", "imageURL800", "imageURL400"); url != "" {
			out = append(out, url)
		}
	}
	return out
}

// ExtractAttributes pulls criteria/attribute rows out of an article record.
func ExtractAttributes(articleID int, rec map[string]any) []internal.AttributeRow {
	raw := catalog.ResolveField(rec, criteriaAliases...)
	if m, ok := raw.(map[string]any); ok {
		raw = m["array"]
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	out := make([]internal.AttributeRow, 0, len(items))
	for _, item := range items {
		attr, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, internal.AttributeRow{
			ArticleID:           articleID,
			CriteriaID:          catalog.ResolveString(attr, criteriaIDAliases...),
			CriteriaDescription: catalog.ResolveString(attr, criteriaDescAliases...),
			CriteriaAbbr:        catalog.ResolveString(attr, criteriaAbbrAliases...),
			ValueRaw:            catalog.ResolveString(attr, valueRawAliases...),
			ValueFormatted:      catalog.ResolveString(attr, valueFmtAliases...),
			Unit:                catalog.ResolveString(attr, unitAliases...),
			ImmediateDisplay:    catalog.ResolveString(attr, "immediateDisplay"),
			IsInterval:          catalog.ResolveString(attr, "isInterval"),
		})
	}
	return out
}

// GenericArticleIDs lists the generic-article ids of a record, needed by
// the all-numbers reference search.
func GenericArticleIDs(rec map[string]any) []int {
	out := make([]int, 0)
	for _, gen := range catalog.NormalizeEnvelope(catalog.ResolveField(rec, genericArticleAlias...)) {
		if id, ok := catalog.ResolveInt(gen, "genericArticleId"); ok {
			out = append(out, id)
		}
	}
	return out
}

func joinWith(parts []string, sep string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
