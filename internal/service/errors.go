package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrForbidden    = errors.New("forbidden")    // 403
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 400
)

// Error carries a user-facing message alongside its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// withf derives a more specific error that still matches e with errors.Is.
func (e *Error) withf(format string, args ...any) *Error {
	return &Error{Kind: e, Msg: fmt.Sprintf(format, args...)}
}

// Message returns the user-facing text of the outermost *Error in err's chain.
func Message(err error) (string, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Msg, true
	}
	return "", false
}

var (
	ErrInvalidInput = newError(ErrValidation, "入力内容が正しくありません")

	ErrRegisterFieldsRequired = ErrInvalidInput.withf("メール、名前、パスワード、住所、郵便番号は必須です")
	ErrInvalidEmail           = ErrInvalidInput.withf("有効なメールアドレスを入力してください")
	ErrPasswordTooShort       = ErrInvalidInput.withf("パスワードは%d文字以上である必要があります", minPasswordLen)
	ErrInvalidAddress         = ErrInvalidInput.withf("住所は必須で、%d文字以内で入力してください", maxAddressLen)
	ErrInvalidPostalCode      = ErrInvalidInput.withf("郵便番号は7桁の数字で入力してください")
	ErrLoginFieldsRequired    = ErrInvalidInput.withf("メールアドレスとパスワードは必須です")
	ErrAddressFieldsRequired  = ErrInvalidInput.withf("住所と郵便番号は必須です")

	ErrProductFieldsRequired = ErrInvalidInput.withf("商品名、説明、価格、在庫、カテゴリーは必須です")
	ErrInvalidPrice          = ErrInvalidInput.withf("価格は正の数値である必要があります")
	ErrInvalidStock          = ErrInvalidInput.withf("在庫は0以上の数値である必要があります")
	ErrPriceTooHigh          = ErrInvalidPrice.withf("価格は%d以下である必要があります", maxPrice)
	ErrStockTooHigh          = ErrInvalidStock.withf("在庫は%d以下である必要があります", maxStock)
	ErrSearchQueryRequired   = ErrInvalidInput.withf("検索キーワードは必須です")
	ErrInvalidQuantity       = ErrInvalidInput.withf("数量は1以上である必要があります")

	ErrEmptyOrder    = newError(ErrValidation, "注文アイテムが必要です")
	ErrInvalidItem   = newError(ErrValidation, "無効な注文アイテムです")
	ErrInvalidStatus = newError(ErrValidation, "無効なステータスです")

	ErrAmountTooLarge = newError(ErrValidation, "合計金額が上限を超えています")

	ErrDuplicateEmail    = newError(ErrConflict, "このメールアドレスは既に使用されています")
	ErrInsufficientStock = newError(ErrConflict, "在庫が不足しています")

	ErrInvalidCredentials = newError(ErrUnauthorized, "メールアドレスまたはパスワードが正しくありません")
	ErrMissingToken       = newError(ErrUnauthorized, "アクセストークンが必要です")
	ErrInvalidToken       = newError(ErrForbidden, "無効なトークンです")

	ErrOrderAccessDenied = newError(ErrForbidden, "他のユーザーの注文にはアクセスできません")
	ErrOrderUpdateDenied = newError(ErrForbidden, "他のユーザーの注文は更新できません")

	ErrUserNotFound     = newError(ErrNotFound, "ユーザーが見つかりません")
	ErrProductNotFound  = newError(ErrNotFound, "商品が見つかりません")
	ErrOrderNotFound    = newError(ErrNotFound, "注文が見つかりません")
	ErrCartItemNotFound = newError(ErrNotFound, "カートに該当する商品がありません")
)
