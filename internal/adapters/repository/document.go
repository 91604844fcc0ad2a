package repository

import (
	"fmt"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"

	"github.com/okian/brandhealth/internal/domain/model"
)

// docValues holds the numbers of one metric. Overall entries leave Target
// and Growth unset.
type docValues struct {
	Value        float64 `koanf:"value"`
	Target       float64 `koanf:"target"`
	VsTarget     float64 `koanf:"vs_target"`
	VsQ4         float64 `koanf:"vs_q4"`
	VsQ1LastYear float64 `koanf:"vs_q1_ly"`
	Growth       float64 `koanf:"growth"`
}

func (v docValues) metricValues() model.MetricValues {
	return model.MetricValues{
		Value:        v.Value,
		Target:       v.Target,
		VsTarget:     v.VsTarget,
		VsQ4:         v.VsQ4,
		VsQ1LastYear: v.VsQ1LastYear,
		Growth:       v.Growth,
	}
}

type docMarket struct {
	Name          string     `koanf:"name"`
	Awareness     *docValues `koanf:"awareness"`
	Familiarity   *docValues `koanf:"familiarity"`
	Consideration *docValues `koanf:"consideration"`
	Intent        *docValues `koanf:"intent"`
}

func (m docMarket) values() map[model.Metric]*docValues {
	return map[model.Metric]*docValues{
		model.Awareness:     m.Awareness,
		model.Familiarity:   m.Familiarity,
		model.Consideration: m.Consideration,
		model.Intent:        m.Intent,
	}
}

type docQuarter struct {
	Quarter       string   `koanf:"quarter"`
	Awareness     *float64 `koanf:"awareness"`
	Familiarity   *float64 `koanf:"familiarity"`
	Consideration *float64 `koanf:"consideration"`
	Intent        *float64 `koanf:"intent"`
}

type docProjections struct {
	Periods       []string  `koanf:"periods"`
	Awareness     []float64 `koanf:"awareness"`
	Familiarity   []float64 `koanf:"familiarity"`
	Consideration []float64 `koanf:"consideration"`
	Intent        []float64 `koanf:"intent"`
}

type docAtRisk struct {
	Market   string  `koanf:"market"`
	Metric   string  `koanf:"metric"`
	Value    float64 `koanf:"value"`
	Target   float64 `koanf:"target"`
	VsTarget float64 `koanf:"vs_target"`
	Issue    string  `koanf:"issue"`
}

type document struct {
	Period      string               `koanf:"period"`
	Overall     map[string]docValues `koanf:"overall"`
	Markets     []docMarket          `koanf:"markets"`
	Quarters    []docQuarter         `koanf:"quarters"`
	Projections docProjections       `koanf:"projections"`
	AtRisk      []docAtRisk          `koanf:"at_risk"`
}

// decodeYAML loads a YAML wave document.
func decodeYAML(p koanf.Provider) (*model.Dataset, error) {
	return decodeDocument(p, yaml.Parser(), "yaml")
}

// decodeTOML loads a TOML wave document with the same keys as the YAML one.
func decodeTOML(p koanf.Provider) (*model.Dataset, error) {
	return decodeDocument(p, toml.Parser(), "toml")
}

// decodeDocument loads a wave document through koanf and feeds it to the
// builder.
func decodeDocument(p koanf.Provider, parser koanf.Parser, format string) (*model.Dataset, error) {
	k := koanf.New(".")
	if err := k.Load(p, parser); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", format, ErrMalformedRecord, err)
	}
	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", format, ErrMalformedRecord, err)
	}

	b := newBuilder()
	b.setPeriod(doc.Period)
	for metric, v := range doc.Overall {
		kpi := model.OverallKPI{Value: v.Value, VsTarget: v.VsTarget, VsQ4: v.VsQ4, VsQ1LastYear: v.VsQ1LastYear}
		if err := b.setOverall(metric, kpi); err != nil {
			return nil, fmt.Errorf("overall: %w", err)
		}
	}
	for i, mk := range doc.Markets {
		if mk.Name == "" {
			return nil, fmt.Errorf("markets[%d] without name: %w", i, ErrMalformedRecord)
		}
		for metric, v := range mk.values() {
			var mv model.MetricValues
			if v != nil {
				mv = v.metricValues()
			}
			if err := b.setMarketMetric(mk.Name, string(metric), mv); err != nil {
				return nil, fmt.Errorf("markets[%d]: %w", i, err)
			}
		}
	}
	for i, q := range doc.Quarters {
		fields := map[model.Metric]*float64{
			model.Awareness:     q.Awareness,
			model.Familiarity:   q.Familiarity,
			model.Consideration: q.Consideration,
			model.Intent:        q.Intent,
		}
		for metric, v := range fields {
			var f float64
			if v != nil {
				f = *v
			}
			if err := b.setQuarterValue(q.Quarter, string(metric), f); err != nil {
				return nil, fmt.Errorf("quarters[%d]: %w", i, err)
			}
		}
	}

	proj := doc.Projections
	series := map[model.Metric][]float64{
		model.Awareness:     proj.Awareness,
		model.Familiarity:   proj.Familiarity,
		model.Consideration: proj.Consideration,
		model.Intent:        proj.Intent,
	}
	for metric, vs := range series {
		if len(vs) > len(proj.Periods) {
			return nil, fmt.Errorf("projections.%s has %d values for %d periods: %w", metric, len(vs), len(proj.Periods), ErrMalformedRecord)
		}
	}
	for i, period := range proj.Periods {
		for _, metric := range model.Metrics {
			var v float64
			if vs := series[metric]; i < len(vs) {
				v = vs[i]
			}
			if err := b.setProjection(period, string(metric), v); err != nil {
				return nil, fmt.Errorf("projections[%d]: %w", i, err)
			}
		}
	}

	for i, a := range doc.AtRisk {
		e := model.AtRiskEntry{Value: a.Value, Target: a.Target, VsTarget: a.VsTarget, Issue: a.Issue}
		if err := b.addAtRisk(a.Market, a.Metric, e); err != nil {
			return nil, fmt.Errorf("at_risk[%d]: %w", i, err)
		}
	}
	return b.build(), nil
}
