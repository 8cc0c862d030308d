package tables

// Models lists every table in creation order. Join tables come first so bun can register m2m relations.
func Models() []any {
	return []any{
		(*CollectionProduct)(nil),
		(*User)(nil),
		(*UserProfile)(nil),
		(*Category)(nil),
		(*SizeChart)(nil),
		(*Product)(nil),
		(*Collection)(nil),
		(*CartItem)(nil),
		(*WishlistItem)(nil),
		(*Order)(nil),
		(*OrderItem)(nil),
		(*Review)(nil),
		(*ContactMessage)(nil),
		(*ContactSetting)(nil),
	}
}
