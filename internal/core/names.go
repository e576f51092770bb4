package core

import (
	"path"
	"strings"
)

// DefaultUploadFileName is used when the user leaves the volume filename
// blank.
const DefaultUploadFileName = "uploaded_data.csv"

// SanitizeTableName derives a warehouse-safe table name from an uploaded
// filename: extension stripped, lowercased, spaces and hyphens mapped to
// underscores, everything else outside [a-z0-9_] dropped.
func SanitizeTableName(fileName string) string {
	name := strings.TrimSuffix(fileName, path.Ext(fileName))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	var b strings.Builder
	for _, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeUploadFileName applies the volume filename defaults: blank
// becomes DefaultUploadFileName and a missing .csv suffix is appended.
func NormalizeUploadFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultUploadFileName
	}
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return name
}

// VolumePath builds the Unity Catalog volume directory from its parts,
// tolerating partially filled-in inputs the way the UI's live preview
// does.
func VolumePath(catalog, schema, volume string) string {
	parts := []string{"/Volumes"}
	for _, p := range []string{catalog, schema, volume} {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" {
			break
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "/") + "/"
}

// CompleteVolumePath is VolumePath for operations that need a fully
// specified destination; a blank catalog, schema, or volume is
// rejected.
func CompleteVolumePath(catalog, schema, volume string) (string, error) {
	for _, p := range []string{catalog, schema, volume} {
		if strings.TrimSpace(p) == "" {
			return "", ErrIncompleteDestination
		}
	}
	return VolumePath(catalog, schema, volume), nil
}

// JoinVolumePath joins a volume directory and a filename into the full
// object path handed to the storage boundary.
func JoinVolumePath(volumePath, fileName string) string {
	return strings.TrimRight(volumePath, "/") + "/" + fileName
}
