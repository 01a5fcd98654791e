package preprocess

// Options selects the transforms a Pipeline applies.
type Options struct {
	Normalize         bool
	Clean             bool
	RemovePunctuation bool
	Stopwords         bool
	ExtraStopwords    []string
	Lemmatize         bool
	Stem              bool

	// Language selects the stopword list and stemmer. Empty means English.
	Language string
}

// Enabled reports whether any transform is selected.
func (o Options) Enabled() bool {
	return o.Normalize || o.Clean || o.RemovePunctuation || o.Stopwords || o.Lemmatize || o.Stem
}

// Pipeline applies the selected transforms in a fixed order:
// normalize, clean, punctuation, stopwords, then lemmatize or stem.
// When both Lemmatize and Stem are set, only Lemmatize runs.
type Pipeline struct {
	steps []func(string) string
}

// NewPipeline builds a pipeline for opts. A pipeline with no steps returns
// its input unchanged.
func NewPipeline(opts Options) *Pipeline {
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	p := &Pipeline{}
	if opts.Normalize {
		p.steps = append(p.steps, Normalize)
	}
	if opts.Clean {
		p.steps = append(p.steps, BasicClean)
	}
	if opts.RemovePunctuation && !opts.Clean {
		p.steps = append(p.steps, RemovePunctuation)
	}
	if opts.Stopwords {
		extra := append([]string(nil), opts.ExtraStopwords...)
		p.steps = append(p.steps, func(s string) string {
			return RemoveStopwordsIn(lang, s, extra...)
		})
	}
	switch {
	case opts.Lemmatize:
		p.steps = append(p.steps, Lemmatize)
	case opts.Stem:
		p.steps = append(p.steps, func(s string) string {
			return StemIn(lang, s)
		})
	}
	return p
}

// Apply runs the pipeline on a single string.
func (p *Pipeline) Apply(text string) string {
	if p == nil {
		return text
	}
	for _, step := range p.steps {
		text = step(text)
	}
	return text
}

// ApplyAll runs the pipeline on every string, returning a new slice in the
// same order. The input slice is not modified.
func (p *Pipeline) ApplyAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = p.Apply(t)
	}
	return out
}
