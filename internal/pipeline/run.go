package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tecex/internal"
	"tecex/internal/catalog"
	"tecex/internal/config"
	"tecex/internal/storage"
)

// Exporter drives one full catalog export: articles, attributes,
// cross-reference numbers and vehicle applications for every configured
// article, persisted per run and written out as report files.
type Exporter struct {
	cfg    config.Config
	client *catalog.Client
	db     *storage.DB
	log    *zap.SugaredLogger
}

func NewExporter(cfg config.Config, client *catalog.Client, db *storage.DB, log *zap.SugaredLogger) *Exporter {
	return &Exporter{cfg: cfg, client: client, db: db, log: log}
}

// Run executes the export for every configured article. Upstream failures
// on individual calls degrade that article's output instead of aborting
// the run; only persistence errors are fatal.
func (e *Exporter) Run(ctx context.Context) (internal.RunSummary, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := e.log.With("runId", runID)

	var (
		articles   []internal.ArticleRow
		attributes []internal.AttributeRow
		vehicles   []internal.VehicleRow
	)
	refs := NewReferenceAccumulator(log)
	index := NewVehicleIndex()

	for _, ref := range e.cfg.Articles {
		log.Infow("exporting article", "supplierId", ref.SupplierID, "articleNumber", ref.Number)

		body, err := e.client.Call(ctx, e.client.ArticlesQuery(ref.SupplierID, ref.Number))
		if err != nil {
			log.Warnw("article lookup failed", "articleNumber", ref.Number, "error", err)
			continue
		}

		records := catalog.NormalizeEnvelope(catalog.ResolveField(body, "articles", "data"))
		if len(records) == 0 {
			log.Warnw("article not found upstream", "articleNumber", ref.Number)
			continue
		}

		filter := RefFilter{SupplierID: ref.SupplierID, ArticleNumber: ref.Number}
		facets, _ := catalog.ResolveField(body, "assemblyGroupFacets").(map[string]any)
		articleName := e.lookupArticleName(ctx, log, ref)

		for _, rec := range records {
			row := ExtractArticle(rec, facets)
			if row.ArticleID == 0 {
				continue
			}
			row.ArticleName = articleName
			if supplier, ok := catalog.ResolveInt(rec, "dataSupplierId"); ok && supplier != ref.SupplierID {
				continue
			}

			articles = append(articles, row)
			attributes = append(attributes, ExtractAttributes(row.ArticleID, rec)...)
			refs.Accumulate(row.ArticleID, []map[string]any{rec}, filter)

			e.collectAllNumbers(ctx, log, refs, row.ArticleID, ref, GenericArticleIDs(rec))
			vehicles = append(vehicles, e.collectLinkages(ctx, log, index, row.ArticleID)...)
		}
	}

	details := e.collectLinkageDetails(ctx, log, index)
	correlated, stats := Correlate(log, index, details)
	vehicles = append(correlated, vehicles...)
	vehicles = DedupeVehicles(vehicles)

	summary := internal.RunSummary{
		RunID:      runID,
		Articles:   len(articles),
		Attributes: len(attributes),
		References: len(refs.References()),
		Vehicles:   len(vehicles),
		Matched:    stats.Matched,
		Unmatched:  stats.Unmatched,
	}

	if err := e.db.SaveRun(summary, articles, attributes, refs.References(), vehicles); err != nil {
		return internal.RunSummary{}, err
	}
	if err := e.db.SetMetadata("last_run_id", runID); err != nil {
		return internal.RunSummary{}, err
	}

	bundle := ExportBundle{Articles: articles, Attributes: attributes, References: refs.References(), Vehicles: vehicles}
	if err := WriteCSV(bundle, e.cfg.OutputDir); err != nil {
		return internal.RunSummary{}, err
	}

	log.Infow("run complete",
		"articles", summary.Articles,
		"attributes", summary.Attributes,
		"references", summary.References,
		"vehicles", summary.Vehicles,
		"rejectedRefs", refs.Rejected(),
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)
	return summary, nil
}

// lookupArticleName resolves the display name via direct search; the
// per-supplier article payload does not carry it. Empty on failure, the
// article row then ships without a name.
func (e *Exporter) lookupArticleName(ctx context.Context, log *zap.SugaredLogger, ref internal.ArticleRef) string {
	body, err := e.client.Call(ctx, e.client.DirectSearchQuery(ref.SupplierID, ref.Number))
	if err != nil {
		log.Warnw("direct search failed", "articleNumber", ref.Number, "error", err)
		return ""
	}
	return ArticleNameFromDirectSearch(body)
}

// collectAllNumbers pulls the searchType-10 listing, which carries
// reference numbers the per-supplier article payload omits.
func (e *Exporter) collectAllNumbers(ctx context.Context, log *zap.SugaredLogger, refs *ReferenceAccumulator, articleID int, ref internal.ArticleRef, genericIDs []int) {
	body, err := e.client.Call(ctx, e.client.AllNumbersQuery(ref.Number, genericIDs))
	if err != nil {
		log.Warnw("all-numbers lookup failed", "articleNumber", ref.Number, "error", err)
		return
	}
	records := catalog.NormalizeEnvelope(catalog.ResolveField(body, "articles", "data"))
	refs.Accumulate(articleID, records, RefFilter{SupplierID: ref.SupplierID, ArticleNumber: ref.Number})
}

// collectLinkages walks manufacturer by manufacturer and returns the
// vehicle rows that carry no usable target key; keyed links go into the
// index for correlation later.
func (e *Exporter) collectLinkages(ctx context.Context, log *zap.SugaredLogger, index *VehicleIndex, articleID int) []internal.VehicleRow {
	var orphans []internal.VehicleRow

	for _, targetType := range e.cfg.VehicleTypes {
		body, err := e.client.Call(ctx, e.client.LinkedManufacturersQuery(articleID, targetType))
		if err != nil {
			log.Warnw("linked manufacturers lookup failed", "articleId", articleID, "targetType", targetType, "error", err)
			continue
		}

		for _, rec := range catalog.NormalizeEnvelope(body) {
			mfrID, ok := catalog.ResolveInt(rec, "manuId", "mfrId")
			if !ok {
				continue
			}

			linkBody, err := e.client.Call(ctx, e.client.LinkagesByManufacturerQuery(articleID, mfrID, targetType))
			if err != nil {
				log.Warnw("linkage listing failed", "articleId", articleID, "mfrId", mfrID, "error", err)
				continue
			}
			pairs := ExtractLinkPairs(linkBody)

			for start := 0; start < len(pairs); start += catalog.DetailBatchSize {
				end := start + catalog.DetailBatchSize
				if end > len(pairs) {
					end = len(pairs)
				}

				detailBody, err := e.client.Call(ctx, e.client.DetailedLinkagesQuery(articleID, pairs[start:end], targetType))
				if err != nil {
					log.Warnw("linkage detail batch failed", "articleId", articleID, "mfrId", mfrID, "error", err)
					continue
				}

				links, loose := ExtractLinkedVehicles(articleID, detailBody)
				for i := range links {
					if links[i].MfrID == 0 {
						links[i].MfrID = mfrID
					}
					index.Add(links[i])
				}
				orphans = append(orphans, loose...)
			}
		}
	}

	return orphans
}

// collectLinkageDetails pages through the detail catalog for every
// manufacturer the index observed, one sweep per construction type.
func (e *Exporter) collectLinkageDetails(ctx context.Context, log *zap.SugaredLogger, index *VehicleIndex) []internal.LinkageDetail {
	mfrIDs := index.MfrIDs()
	if len(mfrIDs) == 0 {
		return nil
	}

	var details []internal.LinkageDetail
	seen := map[int]bool{}

	for _, targetType := range e.cfg.VehicleTypes {
		records := catalog.CollectPages(log, func(page int) ([]map[string]any, int, bool) {
			body, err := e.client.Call(ctx, e.client.LinkageTargetsQuery(mfrIDs, targetType, page))
			if err != nil {
				log.Warnw("linkage targets page failed", "targetType", targetType, "page", page, "error", err)
				return nil, 0, false
			}
			total, _ := catalog.ResolveInt(body, "total")
			return catalog.NormalizeEnvelope(catalog.ResolveField(body, "linkageTargets", "data")), total, true
		})

		for _, rec := range records {
			d := ParseLinkageDetail(rec)
			if d.DetailKey != 0 && seen[d.DetailKey] {
				continue
			}
			if d.DetailKey != 0 {
				seen[d.DetailKey] = true
			}
			details = append(details, d)
		}
	}

	return details
}

// Probe checks upstream connectivity by fetching brand info for the first
// configured supplier and logging what came back.
func (e *Exporter) Probe(ctx context.Context) error {
	if len(e.cfg.Articles) == 0 {
		e.log.Warnw("no articles configured, nothing to probe")
		return nil
	}

	supplierID := e.cfg.Articles[0].SupplierID
	body, err := e.client.Call(ctx, e.client.BrandInfoQuery(supplierID))
	if err != nil {
		return err
	}

	var brands []string
	for _, rec := range catalog.NormalizeEnvelope(catalog.ResolveField(body, "data", "array")) {
		if name := catalog.ResolveString(rec, "brandName", "mfrName"); name != "" {
			brands = append(brands, name)
		}
	}
	e.log.Infow("catalog reachable", "supplierId", supplierID, "brands", strings.Join(brands, ", "))
	return nil
}
