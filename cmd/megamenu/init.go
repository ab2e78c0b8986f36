package main

import (
	"fmt"
	"os"
)

const starterConfig = `# megamenu configuration
store:
  base_url: https://cms.example.com
  site_path: /sites/intranet
  folder: SiteAssets
  filename: menuData.ts
  const_name: menuData
  # auth_token: ${MEGAMENU_TOKEN}
  # list_url: /lists/menu/view
  # git:
  #   url: https://git.example.com/intranet/site.git
  #   branch: main
  #   path: config/menuData.ts

# Acquisition strategies, tried in order. Available: file, meta, list, git.
sources: [file, meta]

cache:
  backend: memory # or sqlite
  # path: megamenu.db
  ttl: 30m

retry:
  mode: linear
  initial: 1s
  max: 30s
  max_retries: 2

server:
  addr: :8080
  # admin_token: ${MEGAMENU_ADMIN_TOKEN}

daemon:
  refresh_interval: 15m
  watch_config: true
  nats:
    enabled: false
    # url: nats://localhost:4222
    # subject: megamenu.invalidate

logging:
  level: info
  format: text
`

// runInit writes a starter configuration file.
func runInit(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return os.WriteFile(path, []byte(starterConfig), 0o600)
}
