package scan

import "bytes"

// maxEvidencePerFile caps the evidence records kept per topic per file.
// Earliest-found records are kept; later matches still raise the local
// evidence count driving the confidence boost.
const maxEvidencePerFile = 10

// DetectFeatures scores one file against the catalog and returns the topics
// with at least one evidence record. Every pattern is tested against the
// relative path (evidence at line 1) and against the full file text, global
// and case-insensitive. Confidence is boosted by local evidence volume:
// base, +0.05 at three records, +0.05 more at five, capped at 1.0.
func DetectFeatures(relPath string, content []byte, catalog *Catalog) []DetectedFeature {
	var features []DetectedFeature

	for _, topic := range catalog.Topics() {
		var evidence []Evidence
		count := 0

		for _, pattern := range topic.Patterns {
			if pattern.MatchString(relPath) {
				count++
				if len(evidence) < maxEvidencePerFile {
					evidence = append(evidence, Evidence{
						Pattern:    pattern.String(),
						SourceFile: relPath,
						Line:       1,
					})
				}
			}
			for _, loc := range pattern.FindAllIndex(content, -1) {
				count++
				if len(evidence) < maxEvidencePerFile {
					evidence = append(evidence, Evidence{
						Pattern:    pattern.String(),
						SourceFile: relPath,
						Line:       1 + bytes.Count(content[:loc[0]], []byte("\n")),
					})
				}
			}
		}

		if count == 0 {
			continue
		}

		features = append(features, DetectedFeature{
			ID:         topic.ID,
			Confidence: localConfidence(topic.Confidence, count),
			Evidence:   evidence,
		})
	}

	return features
}

// localConfidence applies the per-file evidence-volume boost.
func localConfidence(base float64, count int) float64 {
	c := base
	if count >= 3 {
		c += 0.05
	}
	if count >= 5 {
		c += 0.05
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// MergeFeatures combines per-file detections into one DetectedFeature per
// topic id: evidence lists are unioned in input order and the merged
// confidence is the maximum over the per-file confidences, never a sum.
func MergeFeatures(perFile [][]DetectedFeature) []DetectedFeature {
	var order []string
	byID := map[string]*DetectedFeature{}

	for _, features := range perFile {
		for _, f := range features {
			merged, ok := byID[f.ID]
			if !ok {
				clone := DetectedFeature{ID: f.ID, Confidence: f.Confidence}
				clone.Evidence = append(clone.Evidence, f.Evidence...)
				byID[f.ID] = &clone
				order = append(order, f.ID)
				continue
			}
			merged.Evidence = append(merged.Evidence, f.Evidence...)
			if f.Confidence > merged.Confidence {
				merged.Confidence = f.Confidence
			}
		}
	}

	out := make([]DetectedFeature, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
