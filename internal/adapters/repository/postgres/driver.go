package postgres

import _ "github.com/lib/pq"
