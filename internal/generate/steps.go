package generate

import "github.com/sourceplane/actionforge/internal/model"

// stepSpec is a step template; Run, With and Env values may contain
// text/template actions rendered against the step context. Templates use
// [[ ]] delimiters so GitHub's ${{ }} expressions pass through untouched.
type stepSpec struct {
	Name string
	Uses string
	Run  string
	With map[string]string
	Env  map[string]string
}

var checkoutStep = stepSpec{
	Name: "Checkout code",
	Uses: "actions/checkout@v4",
}

var setupSteps = map[model.ProjectType][]stepSpec{
	model.ProjectGo: {
		{Name: "Set up Go", Uses: "actions/setup-go@v5", With: map[string]string{"go-version": "stable"}},
	},
	model.ProjectNode: {
		{Name: "Set up Node.js", Uses: "actions/setup-node@v4", With: map[string]string{"node-version": "lts/*"}},
		{Name: "Install dependencies", Run: "npm ci"},
	},
	model.ProjectPython: {
		{Name: "Set up Python", Uses: "actions/setup-python@v5", With: map[string]string{"python-version": "3.12"}},
		{Name: "Install dependencies", Run: "pip install -r requirements.txt"},
	},
	model.ProjectRust: {
		{Name: "Set up Rust", Uses: "dtolnay/rust-toolchain@stable"},
	},
	model.ProjectMove: {
		{
			Name: "Install Homebrew and Sui",
			Run: `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"
echo "/home/linuxbrew/.linuxbrew/bin" >> $GITHUB_PATH
echo "/home/linuxbrew/.linuxbrew/sbin" >> $GITHUB_PATH
eval "$(/home/linuxbrew/.linuxbrew/bin/brew shellenv)"
brew install sui
sui --version`,
		},
	},
}

var cacheSteps = map[model.ProjectType]stepSpec{
	model.ProjectGo: {
		Name: "Cache modules",
		Uses: "actions/cache@v4",
		With: map[string]string{
			"path": "~/go/pkg/mod",
			"key":  "${{ runner.os }}-go-${{ hashFiles('**/go.sum') }}",
		},
	},
	model.ProjectNode: {
		Name: "Cache node_modules",
		Uses: "actions/cache@v4",
		With: map[string]string{
			"path": "~/.npm",
			"key":  "${{ runner.os }}-node-${{ hashFiles('**/package-lock.json') }}",
		},
	},
	model.ProjectPython: {
		Name: "Cache pip",
		Uses: "actions/cache@v4",
		With: map[string]string{
			"path": "~/.cache/pip",
			"key":  "${{ runner.os }}-pip-${{ hashFiles('**/requirements.txt') }}",
		},
	},
	model.ProjectRust: {
		Name: "Cache cargo",
		Uses: "actions/cache@v4",
		With: map[string]string{
			"path": "~/.cargo/registry\ntarget",
			"key":  "${{ runner.os }}-cargo-${{ hashFiles('**/Cargo.lock') }}",
		},
	},
}

var stageSteps = map[model.ProjectType]map[model.Stage][]stepSpec{
	model.ProjectGo: {
		model.StageLint:  {{Name: "Vet", Run: "go vet ./..."}},
		model.StageBuild: {{Name: "Build", Run: "go build ./..."}},
		model.StageTest:  {{Name: "Test", Run: "go test ./..."}},
		model.StageDeploy: {
			{Name: "Build release binary", Run: "go build -o dist/app ."},
			{Name: "Deploy", Run: "./scripts/deploy.sh [[.Target]]"},
		},
	},
	model.ProjectNode: {
		model.StageLint:  {{Name: "Lint", Run: "npm run lint"}},
		model.StageBuild: {{Name: "Build", Run: "npm run build --if-present"}},
		model.StageTest:  {{Name: "Test", Run: "npm test"}},
		model.StageDeploy: {
			{Name: "Deploy", Run: "npm run deploy -- [[.Target]]"},
		},
	},
	model.ProjectPython: {
		model.StageLint:  {{Name: "Lint", Run: "ruff check ."}},
		model.StageBuild: {{Name: "Build", Run: "python -m compileall -q ."}},
		model.StageTest:  {{Name: "Test", Run: "pytest"}},
		model.StageDeploy: {
			{Name: "Deploy", Run: "./scripts/deploy.sh [[.Target]]"},
		},
	},
	model.ProjectRust: {
		model.StageLint:  {{Name: "Clippy", Run: "cargo clippy -- -D warnings"}},
		model.StageBuild: {{Name: "Build", Run: "cargo build --release"}},
		model.StageTest:  {{Name: "Test", Run: "cargo test"}},
		model.StageDeploy: {
			{Name: "Deploy", Run: "./scripts/deploy.sh [[.Target]]"},
		},
	},
	model.ProjectMove: {
		model.StageLint:  {{Name: "Check build", Run: "sui move build --lint"}},
		model.StageBuild: {{Name: "Build Move modules", Run: "sui move build"}},
		model.StageTest:  {{Name: "Run Move tests", Run: "sui move test"}},
		model.StageDeploy: {
			{
				Name: "Configure Sui CLI and publish",
				Run: `mkdir -p ~/.sui/sui_config
echo "$SUI_CONFIG" > ~/.sui/sui_config/client.yaml
echo "$SUI_KEYSTORE" > ~/.sui/sui_config/sui.keystore
echo "$SUI_ALIASES" > ~/.sui/sui_config/sui.aliases
chmod 600 ~/.sui/sui_config/*
sui client publish --gas-budget 100000000`,
				Env: map[string]string{
					"SUI_NETWORK":  "[[.Target]]",
					"SUI_CONFIG":   "${{ secrets.SUI_CONFIG }}",
					"SUI_KEYSTORE": "${{ secrets.SUI_KEYSTORE }}",
					"SUI_ALIASES":  "${{ secrets.SUI_ALIASES }}",
				},
			},
		},
	},
}

// deployEnv is merged into every deploy job so scripts see the target and a
// deploy credential without per-step wiring.
var deployEnv = map[model.ProjectType]map[string]string{
	model.ProjectGo:     {"DEPLOY_TARGET": "[[.Target]]", "DEPLOY_TOKEN": "${{ secrets.DEPLOY_TOKEN }}"},
	model.ProjectNode:   {"DEPLOY_TARGET": "[[.Target]]", "DEPLOY_TOKEN": "${{ secrets.DEPLOY_TOKEN }}"},
	model.ProjectPython: {"DEPLOY_TARGET": "[[.Target]]", "DEPLOY_TOKEN": "${{ secrets.DEPLOY_TOKEN }}"},
	model.ProjectRust:   {"DEPLOY_TARGET": "[[.Target]]", "DEPLOY_TOKEN": "${{ secrets.DEPLOY_TOKEN }}"},
	model.ProjectMove:   {"SUI_NETWORK": "[[.Target]]"},
}
