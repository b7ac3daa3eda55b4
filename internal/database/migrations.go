package database

// migrations is the ordered schema history. Version n is migrations[n-1];
// entries are append-only.
var migrations = [][]string{
	// 1: reference tables owned by neighbouring services, kept minimal.
	{
		`CREATE TABLE users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT
		)`,
		`CREATE TABLE accounts (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE contacts (
			id UUID PRIMARY KEY,
			account_id UUID REFERENCES accounts(id),
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT ''
		)`,
	},

	// 2: pipelines and stages.
	{
		`CREATE TABLE pipelines (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX pipelines_single_default ON pipelines (is_default) WHERE is_default`,
		`CREATE TABLE pipeline_stages (
			id UUID PRIMARY KEY,
			pipeline_id UUID NOT NULL REFERENCES pipelines(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			slug TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			probability INTEGER NOT NULL DEFAULT 0 CHECK (probability BETWEEN 0 AND 100),
			is_won BOOLEAN NOT NULL DEFAULT FALSE,
			is_lost BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			required_fields TEXT[] NOT NULL DEFAULT '{}',
			CHECK (NOT (is_won AND is_lost))
		)`,
		`CREATE INDEX pipeline_stages_pipeline ON pipeline_stages (pipeline_id, sort_order)`,
	},

	// 3: product catalog.
	{
		`CREATE TABLE products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			sku TEXT,
			base_price NUMERIC(15, 2) NOT NULL DEFAULT 0,
			is_bundle BOOLEAN NOT NULL DEFAULT FALSE,
			billing_frequency TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE product_bundles (
			product_id UUID PRIMARY KEY REFERENCES products(id) ON DELETE CASCADE,
			bundle_type TEXT NOT NULL DEFAULT 'fixed' CHECK (bundle_type IN ('fixed', 'flexible')),
			min_items INTEGER,
			max_items INTEGER,
			discount_type TEXT CHECK (discount_type IN ('percent', 'fixed')),
			discount_value NUMERIC(15, 2)
		)`,
		`CREATE TABLE product_bundle_items (
			bundle_product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			child_product_id UUID NOT NULL REFERENCES products(id),
			quantity NUMERIC(15, 4) NOT NULL DEFAULT 1,
			price_override NUMERIC(15, 2),
			is_optional BOOLEAN NOT NULL DEFAULT FALSE,
			sort_order INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (bundle_product_id, child_product_id)
		)`,
	},

	// 4: opportunities and their dependent rows.
	{
		`CREATE TABLE opportunities (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			pipeline_id UUID NOT NULL REFERENCES pipelines(id),
			stage_id UUID NOT NULL REFERENCES pipeline_stages(id),
			amount NUMERIC(15, 2) NOT NULL DEFAULT 0 CHECK (amount >= 0),
			currency CHAR(3) NOT NULL DEFAULT 'USD',
			close_date DATE,
			probability INTEGER NOT NULL DEFAULT 0 CHECK (probability BETWEEN 0 AND 100),
			weighted_amount NUMERIC(15, 2) GENERATED ALWAYS AS (amount * probability / 100) STORED,
			forecast_category TEXT NOT NULL DEFAULT 'pipeline'
				CHECK (forecast_category IN ('pipeline', 'best_case', 'commit', 'closed', 'omitted')),
			owner_id UUID REFERENCES users(id),
			account_id UUID REFERENCES accounts(id),
			primary_contact_id UUID REFERENCES contacts(id),
			priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
			type TEXT,
			source TEXT,
			description TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			custom_fields JSONB NOT NULL DEFAULT '{}',
			won_at TIMESTAMPTZ,
			lost_at TIMESTAMPTZ,
			close_reason_id UUID,
			close_notes TEXT,
			competitor TEXT,
			stage_entered_at TIMESTAMPTZ,
			created_by UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			deleted_at TIMESTAMPTZ,
			CHECK (won_at IS NULL OR lost_at IS NULL)
		)`,
		`CREATE INDEX opportunities_pipeline_stage ON opportunities (pipeline_id, stage_id) WHERE deleted_at IS NULL`,
		`CREATE INDEX opportunities_owner ON opportunities (owner_id) WHERE deleted_at IS NULL`,
		`CREATE INDEX opportunities_account ON opportunities (account_id) WHERE deleted_at IS NULL`,
		`CREATE INDEX opportunities_tags ON opportunities USING GIN (tags)`,

		`CREATE TABLE opportunity_stage_history (
			seq BIGSERIAL,
			id UUID PRIMARY KEY,
			opportunity_id UUID NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
			from_stage_id UUID,
			to_stage_id UUID NOT NULL,
			to_stage_name TEXT NOT NULL,
			changed_by UUID NOT NULL,
			time_in_stage_seconds BIGINT,
			note TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX opportunity_stage_history_opportunity ON opportunity_stage_history (opportunity_id, created_at)`,

		`CREATE TABLE opportunity_line_items (
			id UUID PRIMARY KEY,
			opportunity_id UUID NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
			item_type TEXT NOT NULL DEFAULT 'standard'
				CHECK (item_type IN ('standard', 'bundle_parent', 'bundle_child', 'bundle_discount')),
			parent_line_item_id UUID REFERENCES opportunity_line_items(id) ON DELETE CASCADE,
			product_id UUID REFERENCES products(id),
			name TEXT NOT NULL,
			quantity NUMERIC(15, 4) NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(15, 2) NOT NULL,
			discount_percent NUMERIC(5, 2) CHECK (discount_percent BETWEEN 0 AND 100),
			discount_amount NUMERIC(15, 2) CHECK (discount_amount >= 0),
			total_price NUMERIC(15, 2) NOT NULL,
			billing_frequency TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_optional BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			CHECK (discount_percent IS NULL OR discount_amount IS NULL)
		)`,
		`CREATE INDEX opportunity_line_items_opportunity ON opportunity_line_items (opportunity_id, sort_order)`,

		`CREATE TABLE opportunity_contact_roles (
			id UUID PRIMARY KEY,
			opportunity_id UUID NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
			contact_id UUID NOT NULL REFERENCES contacts(id),
			role TEXT,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			UNIQUE (opportunity_id, contact_id)
		)`,
		`CREATE UNIQUE INDEX opportunity_contact_roles_single_primary
			ON opportunity_contact_roles (opportunity_id) WHERE is_primary`,

		`CREATE TABLE opportunity_team_members (
			opportunity_id UUID NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id),
			role TEXT NOT NULL DEFAULT 'member',
			PRIMARY KEY (opportunity_id, user_id)
		)`,
	},
}
