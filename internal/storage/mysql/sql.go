package mysql

const insertHotelSQL = `
INSERT INTO hotels
  (name, description, address, neighborhood, photos, amenities)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET
  name         = ?,
  description  = ?,
  address      = ?,
  neighborhood = ?,
  photos       = ?,
  amenities    = ?
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

// Reviews carry ON DELETE CASCADE, but the delete below runs inside the
// same transaction anyway so the invariant survives a schema restored
// without the foreign key.
const deleteHotelReviewsSQL = `DELETE FROM reviews WHERE hotel_id = ?`

const getHotelSQL = `
SELECT id, name, description, address, neighborhood, photos, amenities, created_at, updated_at
FROM hotels
WHERE id = ?
`

const listHotelsSQL = `
SELECT id, name, description, address, neighborhood, photos, amenities, created_at, updated_at
FROM hotels
ORDER BY name ASC, id ASC
`

const insertReviewSQL = `
INSERT INTO reviews
  (hotel_id, author_name, rating, comment, is_approved)
VALUES
  (?, ?, ?, ?, 0)
`

const getReviewForUpdateSQL = `
SELECT id, hotel_id, author_name, rating, comment, is_approved, created_at
FROM reviews
WHERE id = ?
FOR UPDATE
`

const getReviewSQL = `
SELECT id, hotel_id, author_name, rating, comment, is_approved, created_at
FROM reviews
WHERE id = ?
`

const approveReviewSQL = `UPDATE reviews SET is_approved = 1 WHERE id = ?`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

const listApprovedReviewsSQL = `
SELECT id, hotel_id, author_name, rating, comment, is_approved, created_at
FROM reviews
WHERE hotel_id = ? AND is_approved = 1
ORDER BY created_at DESC, id DESC
`

const listPendingReviewsSQL = `
SELECT id, hotel_id, author_name, rating, comment, is_approved, created_at
FROM reviews
WHERE is_approved = 0
ORDER BY created_at DESC, id DESC
`

const insertUserSQL = `
INSERT INTO users (username, password_hash, is_admin)
VALUES (?, ?, ?)
`

const getUserByUsernameSQL = `
SELECT id, username, password_hash, is_admin
FROM users
WHERE username = ?
`
