package dictionary

func defaultAliases() []AliasGroup {
	return []AliasGroup{
		{Name: "ChatMember", Variants: []string{
			"ChatMemberOwner",
			"ChatMemberAdministrator",
			"ChatMemberMember",
			"ChatMemberRestricted",
			"ChatMemberLeft",
			"ChatMemberBanned",
		}},
		{Name: "PassportElementError", Variants: []string{
			"PassportElementErrorDataField",
			"PassportElementErrorFrontSide",
			"PassportElementErrorReverseSide",
			"PassportElementErrorSelfie",
			"PassportElementErrorFile",
			"PassportElementErrorFiles",
			"PassportElementErrorTranslationFile",
			"PassportElementErrorTranslationFiles",
			"PassportElementErrorUnspecified",
		}},
		{Name: "InputMedia", Variants: []string{
			"InputMediaAnimation",
			"InputMediaDocument",
			"InputMediaAudio",
			"InputMediaPhoto",
			"InputMediaVideo",
		}},
		{Name: "InlineQueryResult", Variants: []string{
			"InlineQueryResultCachedAudio",
			"InlineQueryResultCachedDocument",
			"InlineQueryResultCachedGif",
			"InlineQueryResultCachedMpeg4Gif",
			"InlineQueryResultCachedPhoto",
			"InlineQueryResultCachedSticker",
			"InlineQueryResultCachedVideo",
			"InlineQueryResultCachedVoice",
			"InlineQueryResultArticle",
			"InlineQueryResultAudio",
			"InlineQueryResultContact",
			"InlineQueryResultGame",
			"InlineQueryResultDocument",
			"InlineQueryResultGif",
			"InlineQueryResultLocation",
			"InlineQueryResultMpeg4Gif",
			"InlineQueryResultPhoto",
			"InlineQueryResultVenue",
			"InlineQueryResultVideo",
			"InlineQueryResultVoice",
		}},
		{Name: "InputMessageContent", Variants: []string{
			"InputTextMessageContent",
			"InputLocationMessageContent",
			"InputVenueMessageContent",
			"InputContactMessageContent",
			"InputInvoiceMessageContent",
		}},
		{Name: "MenuButton", Variants: []string{
			"MenuButtonCommands",
			"MenuButtonWebApp",
			"MenuButtonDefault",
		}},
		{Name: "BackgroundFill", Variants: []string{
			"BackgroundFillSolid",
			"BackgroundFillGradient",
			"BackgroundFillFreeformGradient",
		}},
		{Name: "MaybeInaccessibleMessage", Variants: []string{
			"Message",
			"InaccessibleMessage",
		}},
		{Name: "MessageOrigin", Variants: []string{
			"MessageOriginUser",
			"MessageOriginHiddenUser",
			"MessageOriginChat",
			"MessageOriginChannel",
		}},
		{Name: "PaidMedia", Variants: []string{
			"PaidMediaPreview",
			"PaidMediaPhoto",
			"PaidMediaVideo",
		}},
		{Name: "BackgroundType", Variants: []string{
			"BackgroundTypeFill",
			"BackgroundTypeWallpaper",
			"BackgroundTypePattern",
			"BackgroundTypeChatTheme",
		}},
		{Name: "ReactionType", Variants: []string{
			"ReactionTypeEmoji",
			"ReactionTypeCustomEmoji",
		}},
		{Name: "BotCommandScope", Variants: []string{
			"BotCommandScopeDefault",
			"BotCommandScopeAllPrivateChats",
			"BotCommandScopeAllGroupChats",
			"BotCommandScopeAllChatAdministrators",
			"BotCommandScopeChat",
			"BotCommandScopeChatAdministrators",
			"BotCommandScopeChatMember",
		}},
		{Name: "ChatBoostSource", Variants: []string{
			"ChatBoostSourcePremium",
			"ChatBoostSourceGiftCode",
			"ChatBoostSourceGiveaway",
		}},
		{Name: "InputPaidMedia", Variants: []string{
			"InputPaidMediaPhoto",
			"InputPaidMediaVideo",
		}},
		{Name: "RevenueWithdrawalState", Variants: []string{
			"RevenueWithdrawalStatePending",
			"RevenueWithdrawalStateSucceeded",
			"RevenueWithdrawalStateFailed",
		}},
		{Name: "TransactionPartner", Variants: []string{
			"TransactionPartnerUser",
			"TransactionPartnerFragment",
			"TransactionPartnerTelegramAds",
			"TransactionPartnerOther",
		}},
	}
}
