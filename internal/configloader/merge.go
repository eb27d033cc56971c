package configloader

import "github.com/yaklabco/prosidy/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: override overwrites base if override is non-nil, so an
//     explicit false wins
//   - Slices: override replaces base entirely if override is non-nil
//   - Namespace: prefix and URI merge independently
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Pretty != nil {
		result.Pretty = override.Pretty
	}
	if override.Stylesheets != nil {
		result.Stylesheets = override.Stylesheets
	}

	if override.Namespace.Prefix != "" {
		result.Namespace.Prefix = override.Namespace.Prefix
	}
	if override.Namespace.URI != "" {
		result.Namespace.URI = override.Namespace.URI
	}

	result.Manifest = mergeManifest(base.Manifest, override.Manifest)

	return &result
}

// mergeManifest merges manifest settings field by field.
func mergeManifest(base, override config.ManifestConfig) config.ManifestConfig {
	result := base

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.FollowSymlinks != nil {
		result.FollowSymlinks = override.FollowSymlinks
	}
	if override.IncludeVendored != nil {
		result.IncludeVendored = override.IncludeVendored
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
