package sink

import "github.com/matzehuels/wordcloud/pkg/cloud"

// RenderJSON exports the layout. Outlines are not included; they are
// rebuilt from the words when the layout is drawn again.
func RenderJSON(l *cloud.Layout) ([]byte, error) {
	return cloud.MarshalLayout(*l)
}
