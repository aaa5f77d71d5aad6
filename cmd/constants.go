package cmd

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "govyper.json"

// TargetFlagDescription describes the --target flag shared by commands that accept compilation targets.
const TargetFlagDescription = "path of a Vyper contract source file to compile (can be used multiple times)"
