package httpapi

import "leadengine/internal/scrape/types"

type ScrapeStatus = types.ScrapeStatus
