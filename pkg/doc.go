// Package pkg provides the libraries behind the wordcloud CLI and API.
//
// # Overview
//
// wordcloud turns a text (or a table of word weights) into a picture where
// the most frequent words are the largest and sit closest to the center,
// and no two words overlap. The pkg directory is organized into four areas:
//
//  1. Counting: [wordfreq] tokenizes text into a frequency table
//  2. Layout: [engine] drives [sizing] and [placement] over [region] and
//     [canvas], using [typeset] outlines of the [fonts] faces
//  3. Output: [render] and [render/sink] write SVG, PNG, PDF and JSON
//  4. Plumbing: [pipeline], [cache], [store], [source], [api],
//     [observability] and [errors]
//
// # Architecture
//
// The typical data flow:
//
//	Text, URL or frequency table
//	         ↓
//	    [wordfreq] package (tokenize, fold case, merge plurals)
//	         ↓
//	    [engine] package (size words, search for free positions)
//	         ↓
//	    [cloud] Layout (positions, angles, colors)
//	         ↓
//	    [render/sink] package → SVG/PNG/PDF/JSON
//
// [pipeline.Runner] chains these stages and caches each one.
//
// # Quick Start
//
// Lay out a frequency table and write it as SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/wordcloud/pkg/cloud"
//	    "github.com/matzehuels/wordcloud/pkg/engine"
//	    "github.com/matzehuels/wordcloud/pkg/render/sink"
//	)
//
//	e, err := engine.New(engine.Config{Width: 800, Height: 600, Seed: 42}, engine.Options{})
//	if err != nil {
//	    return err
//	}
//	res, err := e.Run(ctx, cloud.FromMap(map[string]float64{"go": 10, "cloud": 5}))
//	if err != nil {
//	    return err
//	}
//	layout := res.Layout()
//	svg := sink.RenderSVG(&layout)
//
// Or run the whole pipeline from text:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:    text,
//	    Formats: []string{"svg", "png"},
//	})
//
// [wordfreq]: github.com/matzehuels/wordcloud/pkg/wordfreq
// [engine]: github.com/matzehuels/wordcloud/pkg/engine
// [sizing]: github.com/matzehuels/wordcloud/pkg/sizing
// [placement]: github.com/matzehuels/wordcloud/pkg/placement
// [region]: github.com/matzehuels/wordcloud/pkg/region
// [canvas]: github.com/matzehuels/wordcloud/pkg/canvas
// [typeset]: github.com/matzehuels/wordcloud/pkg/typeset
// [fonts]: github.com/matzehuels/wordcloud/pkg/fonts
// [render]: github.com/matzehuels/wordcloud/pkg/render
// [render/sink]: github.com/matzehuels/wordcloud/pkg/render/sink
// [pipeline]: github.com/matzehuels/wordcloud/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/wordcloud/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/wordcloud/pkg/cache
// [store]: github.com/matzehuels/wordcloud/pkg/store
// [source]: github.com/matzehuels/wordcloud/pkg/source
// [api]: github.com/matzehuels/wordcloud/pkg/api
// [observability]: github.com/matzehuels/wordcloud/pkg/observability
// [errors]: github.com/matzehuels/wordcloud/pkg/errors
// [cloud]: github.com/matzehuels/wordcloud/pkg/cloud
package pkg
