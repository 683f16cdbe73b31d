package db

// schema is the full database schema. Monetary columns are TEXT holding
// decimal strings; datetime columns are DATETIME in the CURRENT_TIMESTAMP
// format.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('ADMIN', 'MANAGER', 'USER')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    parent_id   INTEGER REFERENCES categories(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
    id            INTEGER PRIMARY KEY,
    sku           TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    description   TEXT,
    barcode       TEXT,
    category_id   INTEGER NOT NULL REFERENCES categories(id),
    cost_price    TEXT NOT NULL DEFAULT '0',
    selling_price TEXT NOT NULL DEFAULT '0',
    member_price  TEXT,
    stock         INTEGER NOT NULL DEFAULT 0,
    min_stock     INTEGER NOT NULL DEFAULT 0,
    max_stock     INTEGER,
    status        TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'INACTIVE', 'DISCONTINUED')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS suppliers (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    contact_name TEXT,
    phone        TEXT,
    email        TEXT,
    address      TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS customers (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    contact_name TEXT,
    phone        TEXT,
    email        TEXT,
    address      TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS member_levels (
    id             INTEGER PRIMARY KEY,
    name           TEXT NOT NULL,
    description    TEXT,
    min_spent      TEXT NOT NULL DEFAULT '0',
    discount       TEXT NOT NULL DEFAULT '1',
    membership_fee TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS members (
    id                INTEGER PRIMARY KEY,
    member_no         TEXT NOT NULL DEFAULT '',
    name              TEXT NOT NULL,
    phone             TEXT,
    email             TEXT,
    gender            TEXT CHECK (gender IN ('MALE', 'FEMALE', 'OTHER')),
    birthday          DATETIME,
    address           TEXT,
    level_id          INTEGER NOT NULL REFERENCES member_levels(id),
    status            TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE', 'INACTIVE', 'SUSPENDED')),
    membership_fee    TEXT,
    membership_expiry DATETIME,
    registered_by     INTEGER NOT NULL REFERENCES users(id),
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_members_member_no
    ON members(member_no) WHERE member_no != '';

CREATE UNIQUE INDEX IF NOT EXISTS idx_members_phone
    ON members(phone) WHERE phone IS NOT NULL;

CREATE TABLE IF NOT EXISTS orders (
    id           INTEGER PRIMARY KEY,
    order_no     TEXT NOT NULL UNIQUE,
    type         TEXT NOT NULL CHECK (type IN ('PURCHASE', 'SALE', 'RETURN')),
    status       TEXT NOT NULL DEFAULT 'PENDING',
    supplier_id  INTEGER REFERENCES suppliers(id),
    customer_id  INTEGER REFERENCES customers(id),
    member_id    INTEGER REFERENCES members(id),
    total_amount TEXT NOT NULL DEFAULT '0',
    paid_amount  TEXT NOT NULL DEFAULT '0',
    order_date   DATETIME NOT NULL,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    notes        TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS order_items (
    id          INTEGER PRIMARY KEY,
    order_id    INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id  INTEGER NOT NULL REFERENCES products(id),
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    unit_price  TEXT NOT NULL DEFAULT '0',
    total_price TEXT NOT NULL DEFAULT '0',
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stock_movements (
    id         INTEGER PRIMARY KEY,
    product_id INTEGER NOT NULL REFERENCES products(id),
    type       TEXT NOT NULL CHECK (type IN ('PURCHASE_IN', 'SALE_OUT', 'RETURN_IN', 'RETURN_OUT', 'ADJUST', 'TRANSFER')),
    quantity   INTEGER NOT NULL,
    reason     TEXT,
    order_id   INTEGER REFERENCES orders(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS membership_payments (
    id         INTEGER PRIMARY KEY,
    member_id  INTEGER NOT NULL REFERENCES members(id),
    amount     TEXT NOT NULL,
    method     TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'PAID',
    start_date DATETIME NOT NULL,
    end_date   DATETIME NOT NULL,
    notes      TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS finance_records (
    id          INTEGER PRIMARY KEY,
    type        TEXT NOT NULL CHECK (type IN ('INCOME', 'EXPENSE')),
    category    TEXT NOT NULL,
    amount      TEXT NOT NULL,
    description TEXT,
    order_id    INTEGER REFERENCES orders(id) ON DELETE SET NULL,
    record_date DATETIME NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`
