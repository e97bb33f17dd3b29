package config

import "testing"

func validPipeline() Pipeline {
	src := TableSource{Kind: "file", Path: "data/in"}
	return Pipeline{
		Job: "oews_merge",
		Sources: Sources{
			Series:       src,
			Observations: src,
			Datatypes:    src,
			Occupations:  src,
		},
		Output: Output{Kind: "csv", Path: "out.csv"},
	}
}

func countBySeverity(issues []Issue) (errs, warns int) {
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			errs++
		case SeverityWarning:
			warns++
		}
	}
	return
}

func TestValidatePipelineClean(t *testing.T) {
	if issues := ValidatePipeline(validPipeline()); len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
}

func TestValidatePipeline(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Pipeline)
		wantPath  string
		wantErrs  int
		wantWarns int
	}{
		{
			name:     "file source without path",
			mutate:   func(p *Pipeline) { p.Sources.Series = TableSource{Kind: "file"} },
			wantPath: "sources.series.path",
			wantErrs: 1,
		},
		{
			name:     "http source without url",
			mutate:   func(p *Pipeline) { p.Sources.Observations = TableSource{Kind: "http"} },
			wantPath: "sources.observations.url",
			wantErrs: 1,
		},
		{
			name: "http source with bad scheme",
			mutate: func(p *Pipeline) {
				p.Sources.Observations = TableSource{Kind: "http", URL: "ftp://x"}
			},
			wantPath: "sources.observations.url",
			wantErrs: 1,
		},
		{
			name:     "missing source kind",
			mutate:   func(p *Pipeline) { p.Sources.Datatypes = TableSource{Path: "x"} },
			wantPath: "sources.datatypes.kind",
			wantErrs: 1,
		},
		{
			name: "bad encoding",
			mutate: func(p *Pipeline) {
				p.Sources.Series.Encoding = "ebcdic"
			},
			wantPath: "sources.series.encoding",
			wantErrs: 1,
		},
		{
			name:      "empty job warns",
			mutate:    func(p *Pipeline) { p.Job = "" },
			wantPath:  "job",
			wantWarns: 1,
		},
		{
			name:      "empty code allow-list warns",
			mutate:    func(p *Pipeline) { p.Filter.DatatypeCodes = []string{} },
			wantPath:  "filter.datatype_codes",
			wantWarns: 1,
		},
		{
			name:     "csv output without path",
			mutate:   func(p *Pipeline) { p.Output = Output{Kind: "csv"} },
			wantPath: "output.path",
			wantErrs: 1,
		},
		{
			name:     "db output without dsn and table",
			mutate:   func(p *Pipeline) { p.Output = Output{Kind: "postgres"} },
			wantPath: "output.db.dsn",
			wantErrs: 2,
		},
		{
			name:     "unknown output kind",
			mutate:   func(p *Pipeline) { p.Output.Kind = "parquet" },
			wantPath: "output.kind",
			wantErrs: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPipeline()
			tt.mutate(&p)
			issues := ValidatePipeline(p)

			errs, warns := countBySeverity(issues)
			if errs != tt.wantErrs || warns != tt.wantWarns {
				t.Fatalf("errors=%d warnings=%d, want %d/%d: %v",
					errs, warns, tt.wantErrs, tt.wantWarns, issues)
			}
			found := false
			for _, i := range issues {
				if i.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Fatalf("no issue at path %q: %v", tt.wantPath, issues)
			}
		})
	}
}

func TestIssueError(t *testing.T) {
	i := Issue{Severity: SeverityError, Path: "output.kind", Message: "bad"}
	if got := i.Error(); got != "error at output.kind: bad" {
		t.Fatalf("Error() = %q", got)
	}
}
